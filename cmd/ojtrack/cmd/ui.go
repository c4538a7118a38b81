package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ojtrack/ojtrack/internal/domain/session"
)

// withSpinner runs fn with a terminal spinner on stderr, so network waits are
// visible without polluting stdout (which may be piped).
func withSpinner(message string, fn func() error) error {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	defer s.Stop()
	return fn()
}

// renderTable writes a table to stdout in the shared style.
func renderTable(header table.Row, rows []table.Row) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

// colorStatus colors well-known status values for terminal output.
func colorStatus(status string) string {
	if noColor() {
		return status
	}
	switch status {
	case "Approved", "active":
		return color.GreenString(status)
	case "Pending":
		return color.YellowString(status)
	case "Rejected", "inactive":
		return color.RedString(status)
	default:
		return status
	}
}

func noColor() bool {
	return color.NoColor
}

// presentError maps the session error taxonomy onto the messages a user
// should see. Connectivity failures must read differently from credential
// failures so nobody retypes passwords at a dead network.
func presentError(err error) error {
	if err == nil {
		return nil
	}

	var ve *session.ValidationError
	if errors.As(err, &ve) {
		return fmt.Errorf("the server rejected the input:\n  %v", ve)
	}
	if errors.Is(err, session.ErrInvalidCredentials) {
		return errors.New("invalid email or password")
	}
	if errors.Is(err, session.ErrConnectivity) {
		return errors.New("no response from server — check your internet connection and the configured api.url")
	}
	var se *session.StorageError
	if errors.As(err, &se) {
		return fmt.Errorf("could not save your session locally: %v", se.Err)
	}
	return err
}

// requireSession fails when nobody is logged in.
func (a *app) requireSession() (session.Session, error) {
	s := a.session.Current()
	if !s.Present() {
		return session.Session{}, errors.New("not logged in — run: ojtrack login <email>")
	}
	return s, nil
}

// requireRole fails when the current user has a different role.
func (a *app) requireRole(role session.Role) (session.Session, error) {
	s, err := a.requireSession()
	if err != nil {
		return session.Session{}, err
	}
	if s.User.Role != role {
		return session.Session{}, fmt.Errorf("this command requires the %s role (you are %s)", role, s.User.Role)
	}
	return s, nil
}

// dash substitutes "-" for empty cell values.
func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
