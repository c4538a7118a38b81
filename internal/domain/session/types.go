// Package session owns the client-side authentication lifecycle: the current
// user, the bearer token, and the transitions between logged-in and
// logged-out. It is the single source of truth for "who is using this CLI".
package session

import "context"

// Role is the account role assigned by the OJT API.
type Role string

const (
	// RoleAdmin is the coordinator/administrator role.
	RoleAdmin Role = "admin"
	// RoleStudent is the trainee role.
	RoleStudent Role = "student"
)

// Known reports whether the role is one the client has screens for.
func (r Role) Known() bool {
	return r == RoleAdmin || r == RoleStudent
}

// User is the authenticated account record returned by the login endpoint
// and cached locally between invocations.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// State is the lifecycle state of the session manager.
type State string

const (
	// StateInitializing means the persisted credentials have not been
	// loaded yet. No routing decision may be made in this state.
	StateInitializing State = "initializing"
	// StateAuthenticated means a full session (token + user) is present.
	StateAuthenticated State = "authenticated"
	// StateUnauthenticated means no session is present.
	StateUnauthenticated State = "unauthenticated"
)

// Session is an immutable snapshot of the current session. Token and User are
// either both set or both empty; the manager never exposes a partial pair.
type Session struct {
	Token string
	User  *User
}

// Present reports whether a full session exists.
func (s Session) Present() bool {
	return s.Token != "" && s.User != nil
}

// CredentialStore is the durable storage for the session pair.
//
// Load must never fail: damaged or missing storage reads as an absent
// session. Save must be atomic (no observable partial write). Clear must be
// idempotent.
type CredentialStore interface {
	Load() (token string, user *User)
	Save(token string, user *User) error
	Clear() error
}

// Authenticator is the remote authentication API consumed by the manager.
// Login errors carry the taxonomy in errors.go; Logout errors are advisory
// only (the manager clears local state regardless).
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*User, string, error)
	Logout(ctx context.Context) error
}
