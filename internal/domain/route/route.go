// Package route maps session state to the screen the user should be on.
// Resolve is a pure function so the redirect decision is trivially testable
// and re-running it at the current destination is a no-op by construction.
package route

import (
	"errors"

	"github.com/ojtrack/ojtrack/internal/domain/session"
)

// Route is a named destination in the client.
type Route string

const (
	// RouteNone means "stay put": no redirect decision can or should be
	// made (still loading, or the role is unusable).
	RouteNone Route = ""

	// RouteLogin is the shared unauthenticated destination.
	RouteLogin Route = "login"

	// Admin destinations.
	RouteAdminHome         Route = "admin/home"
	RouteAdminStudents     Route = "admin/students"
	RouteAdminPrograms     Route = "admin/programs"
	RouteAdminPartners     Route = "admin/partners"
	RouteAdminApplications Route = "admin/applications"
	RouteAdminReports      Route = "admin/reports"
	RouteAdminProfile      Route = "admin/profile"

	// Student destinations.
	RouteStudentHome        Route = "student/home"
	RouteStudentApplication Route = "student/application"
	RouteStudentProgress    Route = "student/progress"
	RouteStudentProfile     Route = "student/profile"
)

// ErrUnknownRole is returned when the stored user carries a role this client
// has no screens for. Callers treat it as a fatal session error and force a
// logout: a silent no-redirect would strand the user with a live token and
// nothing to show.
var ErrUnknownRole = errors.New("unknown role")

// Resolve returns the destination for the given session state.
//
// While loading it returns RouteNone: the persisted session has not been
// restored yet and any redirect would race it. With no session it returns the
// login route. Otherwise the destination is the role's landing route.
func Resolve(loading bool, user *session.User) (Route, error) {
	if loading {
		return RouteNone, nil
	}
	if user == nil {
		return RouteLogin, nil
	}
	switch user.Role {
	case session.RoleAdmin:
		return RouteAdminHome, nil
	case session.RoleStudent:
		return RouteStudentHome, nil
	default:
		return RouteNone, ErrUnknownRole
	}
}

// MenuItem is one entry of a role's navigation menu.
type MenuItem struct {
	Route Route
	Label string
}

// adminMenu mirrors the admin sidebar plus the profile tab.
var adminMenu = []MenuItem{
	{RouteAdminHome, "Dashboard"},
	{RouteAdminStudents, "Students"},
	{RouteAdminPrograms, "OJT Programs"},
	{RouteAdminPartners, "Partners"},
	{RouteAdminApplications, "OJT Applications"},
	{RouteAdminReports, "Reports"},
	{RouteAdminProfile, "Profile"},
}

// studentMenu mirrors the student sidebar plus the navbar tabs.
var studentMenu = []MenuItem{
	{RouteStudentHome, "Dashboard"},
	{RouteStudentApplication, "Application"},
	{RouteStudentProgress, "Progress"},
	{RouteStudentProfile, "Profile"},
}

// MenuFor returns the navigation menu for a role, or nil for an unknown role.
// The returned slice is a copy; callers may reorder it freely.
func MenuFor(role session.Role) []MenuItem {
	var src []MenuItem
	switch role {
	case session.RoleAdmin:
		src = adminMenu
	case session.RoleStudent:
		src = studentMenu
	default:
		return nil
	}
	out := make([]MenuItem, len(src))
	copy(out, src)
	return out
}
