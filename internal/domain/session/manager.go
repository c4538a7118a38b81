package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Manager mediates between the UI layer, the authentication API, and the
// credential store. All session mutation goes through Initialize, Login, and
// Logout; screens only ever read snapshots via Current.
type Manager struct {
	store  CredentialStore
	auth   Authenticator
	logger *slog.Logger

	mu            sync.Mutex
	token         string
	user          *User
	loading       bool
	loginInFlight bool

	initOnce sync.Once
}

// NewManager creates a Manager in the Initializing state.
func NewManager(store CredentialStore, auth Authenticator, logger *slog.Logger) *Manager {
	return &Manager{
		store:   store,
		auth:    auth,
		logger:  logger,
		loading: true,
	}
}

// Initialize restores the persisted session into memory. It is entered exactly
// once: repeat calls are no-ops. The loading flag is cleared unconditionally,
// whatever the store returned, so the route guard is never gated forever.
func (m *Manager) Initialize(ctx context.Context) {
	m.initOnce.Do(func() {
		token, user := m.store.Load()

		m.mu.Lock()
		defer m.mu.Unlock()
		if token != "" && user != nil {
			m.token = token
			m.user = user
			m.logger.Debug("session restored", "email", user.Email, "role", user.Role)
		}
		m.loading = false
	})
}

// IsLoading reports whether the initial restore has not completed yet.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.loading:
		return StateInitializing
	case m.token != "" && m.user != nil:
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}

// Current returns a snapshot of the session. The returned user is a copy;
// mutating it does not affect the manager.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" || m.user == nil {
		return Session{}
	}
	u := *m.user
	return Session{Token: m.token, User: &u}
}

// Token returns the current bearer token, or "" when logged out.
// This is the read hook for the authenticated request pipeline.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Login authenticates against the remote API and, on success, persists the
// new session before exposing it in memory. On every failure path the session
// is left exactly as it was: there is no partial login.
//
// Failures are returned as classified errors (see errors.go), never panics:
// *ValidationError for rejected input, ErrInvalidCredentials for a rejected
// identity, *ConnectivityError when the server never answered,
// *UnexpectedError otherwise, and *StorageError when the credential file
// could not be written.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	if m.loginInFlight {
		m.mu.Unlock()
		return ErrLoginInProgress
	}
	m.loginInFlight = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.loginInFlight = false
		m.mu.Unlock()
	}()

	user, token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if token == "" || user == nil {
		// A 2xx without both halves of the session is a server bug.
		return &UnexpectedError{Message: "login response missing token or user"}
	}

	// Persist first: a crash between the write and the memory update must
	// never leave memory ahead of storage.
	if err := m.store.Save(token, user); err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.mu.Unlock()

	m.logger.Info("logged in", "email", user.Email, "role", user.Role)
	return nil
}

// Logout ends the session. The remote invalidation call is best-effort: a 401
// means the token was already dead and is ignored, any other failure is logged
// and otherwise swallowed. Local state — credential file first, then memory —
// is always cleared, so from the caller's perspective Logout cannot fail.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.auth.Logout(ctx); err != nil && !errors.Is(err, ErrInvalidCredentials) {
		m.logger.Warn("remote logout failed, clearing local session anyway", "error", err)
	}

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear credential store", "error", err)
	}

	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	m.logger.Info("logged out")
}

// ForceLogout clears local state without the remote call. Used by the request
// pipeline when the server has already said the token is invalid (HTTP 401):
// notifying it again would just fail the same way.
func (m *Manager) ForceLogout() {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear credential store", "error", err)
	}

	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	m.logger.Info("session invalidated by server, logged out")
}
