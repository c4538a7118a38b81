// Package integration provides end-to-end tests that verify the session
// lifecycle across the credential store, the API client, and the session
// manager working together against a fake OJT server.
package integration

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"

	"github.com/ojtrack/ojtrack/internal/adapter/outbound/api"
	"github.com/ojtrack/ojtrack/internal/adapter/outbound/credstore"
	"github.com/ojtrack/ojtrack/internal/domain/route"
	"github.com/ojtrack/ojtrack/internal/domain/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// http.Transport keeps idle connections alive briefly after server close.
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// testLogger returns a logger that writes to stderr at error level (quiet tests).
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeOJTServer is a minimal OJT API: one admin account, bearer-token checked
// student listing, token invalidation on logout.
type fakeOJTServer struct {
	*httptest.Server
	token        atomic.Value // current valid token, "" when invalidated
	loginCalls   atomic.Int32
	logoutCalls  atomic.Int32
	studentCalls atomic.Int32
}

func newFakeOJTServer(t *testing.T) *fakeOJTServer {
	t.Helper()
	f := &fakeOJTServer{}
	f.token.Store("")

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		f.loginCalls.Add(1)
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Email == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]any{
				"message": "The given data was invalid.",
				"errors":  map[string][]string{"email": {"The email field is required."}},
			})
			return
		}
		if req.Email != "admin@uni.edu" || req.Password != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"message": "Invalid credentials"})
			return
		}
		f.token.Store("tok-live-1")
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-live-1",
			"user": map[string]any{
				"id": 1, "name": "Admin One", "email": "admin@uni.edu", "role": "admin",
			},
		})
	})
	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {
		f.logoutCalls.Add(1)
		f.token.Store("")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /api/admin/students", func(w http.ResponseWriter, r *http.Request) {
		f.studentCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+f.token.Load().(string) || f.token.Load().(string) == "" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"message": "Unauthenticated."})
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "1", "studentId": "2024-0001", "name": "Ana Cruz", "email": "ana@uni.edu", "status": "active"},
		})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

// newStack wires a credential store, API client, and session manager the way
// the CLI does, against the given server and credential path.
func newStack(t *testing.T, serverURL, credPath string) (*credstore.FileCredentialStore, *api.Client, *session.Manager) {
	t.Helper()
	logger := testLogger()
	store := credstore.NewFileCredentialStore(credPath, logger)
	client := api.NewClient(serverURL, api.WithLogger(logger), api.WithCacheTTL(0))
	mgr := session.NewManager(store, client, logger)
	client.AttachSession(mgr, mgr.ForceLogout)
	return store, client, mgr
}

// TestSessionLifecycle walks the whole journey: fresh install, login,
// persisted restart, authenticated request, logout.
func TestSessionLifecycle(t *testing.T) {
	server := newFakeOJTServer(t)
	credPath := filepath.Join(t.TempDir(), "credentials.json")
	ctx := context.Background()

	// Fresh install: no credential file, initialize lands unauthenticated.
	_, _, mgr := newStack(t, server.URL, credPath)
	if mgr.State() != session.StateInitializing {
		t.Fatalf("State() before Initialize = %v, want StateInitializing", mgr.State())
	}
	mgr.Initialize(ctx)
	if mgr.State() != session.StateUnauthenticated {
		t.Fatalf("State() on fresh install = %v, want StateUnauthenticated", mgr.State())
	}

	target, err := route.Resolve(mgr.IsLoading(), mgr.Current().User)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if target != route.RouteLogin {
		t.Fatalf("Resolve() on fresh install = %q, want %q", target, route.RouteLogin)
	}

	// Login persists before anything else sees the session.
	if err := mgr.Login(ctx, "admin@uni.edu", "s3cret"); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if mgr.State() != session.StateAuthenticated {
		t.Fatalf("State() after login = %v, want StateAuthenticated", mgr.State())
	}

	info, err := os.Stat(credPath)
	if err != nil {
		t.Fatalf("credential file not created: %v", err)
	}
	if runtime.GOOS != "windows" {
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("credential file permissions = %o, want 0600", perm)
		}
	}

	// A process restart restores the same session from disk.
	_, client2, mgr2 := newStack(t, server.URL, credPath)
	mgr2.Initialize(ctx)
	if mgr2.State() != session.StateAuthenticated {
		t.Fatalf("State() after restart = %v, want StateAuthenticated", mgr2.State())
	}
	s := mgr2.Current()
	if s.User.Email != "admin@uni.edu" || s.User.Role != session.RoleAdmin {
		t.Errorf("restored user = %+v, want admin@uni.edu/admin", s.User)
	}
	if got := server.loginCalls.Load(); got != 1 {
		t.Errorf("restart hit the login endpoint: loginCalls = %d, want 1", got)
	}

	target, err = route.Resolve(mgr2.IsLoading(), s.User)
	if err != nil {
		t.Fatalf("Resolve() after restart: %v", err)
	}
	if target != route.RouteAdminHome {
		t.Errorf("Resolve() after restart = %q, want %q", target, route.RouteAdminHome)
	}

	// The restored token flows into authenticated requests.
	students, err := client2.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents() unexpected error: %v", err)
	}
	if len(students) != 1 || students[0].Name != "Ana Cruz" {
		t.Errorf("ListStudents() = %+v, want one row for Ana Cruz", students)
	}

	// Logout invalidates remotely and clears locally.
	mgr2.Logout(ctx)
	if mgr2.State() != session.StateUnauthenticated {
		t.Fatalf("State() after logout = %v, want StateUnauthenticated", mgr2.State())
	}
	if server.logoutCalls.Load() != 1 {
		t.Errorf("logoutCalls = %d, want 1", server.logoutCalls.Load())
	}
	if _, err := os.Stat(credPath); !os.IsNotExist(err) {
		t.Errorf("credential file still present after logout (stat err = %v)", err)
	}

	// A third start sees a clean slate.
	_, _, mgr3 := newStack(t, server.URL, credPath)
	mgr3.Initialize(ctx)
	if mgr3.State() != session.StateUnauthenticated {
		t.Errorf("State() after logout+restart = %v, want StateUnauthenticated", mgr3.State())
	}
}

// TestExpiredTokenTearsDownSession verifies the centralized 401 handling: a
// stored token the server no longer accepts clears the whole session on the
// first authenticated request.
func TestExpiredTokenTearsDownSession(t *testing.T) {
	server := newFakeOJTServer(t)
	credPath := filepath.Join(t.TempDir(), "credentials.json")
	ctx := context.Background()

	store, _, mgr := newStack(t, server.URL, credPath)
	if err := mgr.Login(ctx, "admin@uni.edu", "s3cret"); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	// Server-side invalidation the client has not heard about.
	server.token.Store("")

	_, client2, mgr2 := newStack(t, server.URL, credPath)
	mgr2.Initialize(ctx)
	if mgr2.State() != session.StateAuthenticated {
		t.Fatalf("State() after restart = %v, want StateAuthenticated", mgr2.State())
	}

	_, err := client2.ListStudents(ctx)
	if err == nil {
		t.Fatal("ListStudents() with dead token: expected error, got nil")
	}
	if mgr2.State() != session.StateUnauthenticated {
		t.Errorf("State() after 401 = %v, want StateUnauthenticated", mgr2.State())
	}
	if store.Exists() {
		t.Error("credential file still present after server-side invalidation")
	}
}

// TestLoginFailuresLeaveNoTrace verifies that rejected and unreachable logins
// leave neither a session in memory nor a credential file on disk.
func TestLoginFailuresLeaveNoTrace(t *testing.T) {
	server := newFakeOJTServer(t)
	credPath := filepath.Join(t.TempDir(), "credentials.json")
	ctx := context.Background()

	store, _, mgr := newStack(t, server.URL, credPath)
	mgr.Initialize(ctx)

	// Wrong password: credential error.
	err := mgr.Login(ctx, "admin@uni.edu", "wrong")
	if err != session.ErrInvalidCredentials {
		t.Fatalf("Login() with bad password = %v, want ErrInvalidCredentials", err)
	}

	// Missing email: field-level validation error.
	err = mgr.Login(ctx, "", "s3cret")
	var ve *session.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Login() with empty email = %v, want *ValidationError", err)
	}
	if msgs := ve.Fields["email"]; len(msgs) == 0 {
		t.Errorf("ValidationError.Fields missing email entry: %+v", ve.Fields)
	}

	// Dead server: connectivity error, distinct from credentials.
	deadURL := server.URL
	server.Close()
	_, _, mgrDead := newStack(t, deadURL, credPath)
	mgrDead.Initialize(ctx)
	err = mgrDead.Login(ctx, "admin@uni.edu", "s3cret")
	var ce *session.ConnectivityError
	if !errors.As(err, &ce) {
		t.Fatalf("Login() against dead server = %v, want *ConnectivityError", err)
	}

	if mgr.State() != session.StateUnauthenticated || mgrDead.State() != session.StateUnauthenticated {
		t.Error("failed logins left an authenticated state behind")
	}
	if store.Exists() {
		t.Error("failed logins left a credential file behind")
	}
}
