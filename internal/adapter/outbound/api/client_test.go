package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ojtrack/ojtrack/internal/domain/report"
	"github.com/ojtrack/ojtrack/internal/domain/session"
)

// staticTokens is a TokenSource backed by a plain string.
type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler, token string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, WithCacheTTL(0))
	c.AttachSession(staticTokens(token), nil)
	return c, srv
}

// ---------------------------------------------------------------------------
// Request pipeline
// ---------------------------------------------------------------------------

func TestPipeline_AttachesBearerTokenAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode(Profile{Name: "Ada"})
	})
	c, _ := newTestClient(t, handler, "abc")

	if _, err := c.Profile(context.Background()); err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("expected 'Bearer abc', got %q", gotAuth)
	}
	if gotReqID == "" {
		t.Error("expected an X-Request-ID header")
	}
}

func TestPipeline_NoTokenMeansNoAuthHeader(t *testing.T) {
	var sawAuth bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") != ""
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":  session.User{ID: 1, Email: "admin@x.com", Role: session.RoleAdmin},
			"token": "abc",
		})
	})
	c, _ := newTestClient(t, handler, "")

	if _, _, err := c.Login(context.Background(), "admin@x.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if sawAuth {
		t.Error("unauthenticated request must not carry an Authorization header")
	}
}

func TestPipeline_401TriggersCentralUnauthorizedHook(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthenticated."})
	})
	var hookCalls atomic.Int32
	c, _ := newTestClient(t, handler, "stale")
	c.AttachSession(staticTokens("stale"), func() { hookCalls.Add(1) })

	_, err := c.ListStudents(context.Background())
	if !errors.Is(err, session.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if hookCalls.Load() != 1 {
		t.Errorf("expected unauthorized hook to fire once, got %d", hookCalls.Load())
	}
}

func TestPipeline_LoginAndLogout401DoNotTriggerHook(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthenticated."})
	})
	var hookCalls atomic.Int32
	c, _ := newTestClient(t, handler, "stale")
	c.AttachSession(staticTokens("stale"), func() { hookCalls.Add(1) })

	if _, _, err := c.Login(context.Background(), "a@x.com", "bad"); !errors.Is(err, session.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials from login, got %v", err)
	}
	if err := c.Logout(context.Background()); !errors.Is(err, session.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials from logout, got %v", err)
	}
	if hookCalls.Load() != 0 {
		t.Errorf("login/logout 401 must not fire the hook, got %d calls", hookCalls.Load())
	}
}

// ---------------------------------------------------------------------------
// Error classification
// ---------------------------------------------------------------------------

func TestLogin_422_ReturnsValidationErrorWithFieldMap(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "The given data was invalid.",
			"errors":  map[string][]string{"email": {"required"}},
		})
	})
	c, _ := newTestClient(t, handler, "")

	_, _, err := c.Login(context.Background(), "", "secret")
	var ve *session.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(ve.Fields["email"]) != 1 || ve.Fields["email"][0] != "required" {
		t.Errorf("field map not preserved: %v", ve.Fields)
	}
}

func TestLogin_500_ReturnsUnexpectedError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
	})
	c, _ := newTestClient(t, handler, "")

	_, _, err := c.Login(context.Background(), "a@x.com", "secret")
	var ue *session.UnexpectedError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnexpectedError, got %v", err)
	}
	if ue.Status != http.StatusInternalServerError || ue.Message != "boom" {
		t.Errorf("unexpected error details: %+v", ue)
	}
}

func TestLogin_ServerUnreachable_ReturnsConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // now nothing listens there

	c := NewClient(srv.URL, WithCacheTTL(0), WithTimeout(500*time.Millisecond))
	_, _, err := c.Login(context.Background(), "a@x.com", "secret")
	if !errors.Is(err, session.ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}
	if errors.Is(err, session.ErrInvalidCredentials) {
		t.Error("connectivity failure must not look like a credential failure")
	}
}

// ---------------------------------------------------------------------------
// Endpoints
// ---------------------------------------------------------------------------

func TestListStudents_DecodesRows(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/students" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]Student{
			{ID: "1", StudentID: "2021-001", Name: "Sam", Program: "BSIT", Status: "active"},
		})
	})
	c, _ := newTestClient(t, handler, "abc")

	students, err := c.ListStudents(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(students) != 1 || students[0].StudentID != "2021-001" {
		t.Errorf("unexpected students: %+v", students)
	}
}

func TestReport_BuildsQueryParameters(t *testing.T) {
	var gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]report.Row{{"status": "Pending"}})
	})
	c, _ := newTestClient(t, handler, "abc")

	rows, err := c.Report(context.Background(), ReportRequest{
		Type: "applications", DateRange: "month", Status: "Pending",
	})
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	q, err := url.ParseQuery(gotQuery)
	if err != nil {
		t.Fatalf("bad query %q: %v", gotQuery, err)
	}
	if q.Get("type") != "applications" || q.Get("range") != "month" || q.Get("status") != "Pending" {
		t.Errorf("unexpected query: %q", gotQuery)
	}
}

// ---------------------------------------------------------------------------
// Response cache
// ---------------------------------------------------------------------------

func TestCache_ServesRepeatGETsWithinTTL(t *testing.T) {
	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode([]Program{{ID: "1", ProgramName: "BSIT"}})
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	c := NewClient(srv.URL, WithCacheTTL(time.Minute))
	c.AttachSession(staticTokens("abc"), nil)

	for i := 0; i < 3; i++ {
		if _, err := c.ListPrograms(context.Background()); err != nil {
			t.Fatalf("list failed: %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 upstream hit, got %d", hits.Load())
	}
}

func TestCache_FlushedByMutatingRequest(t *testing.T) {
	var listHits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			listHits.Add(1)
			_ = json.NewEncoder(w).Encode([]Program{})
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("{}"))
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	c := NewClient(srv.URL, WithCacheTTL(time.Minute))
	c.AttachSession(staticTokens("abc"), nil)

	ctx := context.Background()
	if _, err := c.ListPrograms(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.CreateProgram(ctx, CreateProgramRequest{ProgramName: "BSCS"}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListPrograms(ctx); err != nil {
		t.Fatal(err)
	}
	if listHits.Load() != 2 {
		t.Errorf("expected cache flush after create (2 upstream GETs), got %d", listHits.Load())
	}
}

func TestCache_KeyedByToken(t *testing.T) {
	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode([]Program{})
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	c := NewClient(srv.URL, WithCacheTTL(time.Minute))

	c.AttachSession(staticTokens("user-a"), nil)
	if _, err := c.ListPrograms(context.Background()); err != nil {
		t.Fatal(err)
	}

	// A different account must never see the first account's cached rows.
	c.AttachSession(staticTokens("user-b"), nil)
	if _, err := c.ListPrograms(context.Background()); err != nil {
		t.Fatal(err)
	}

	if hits.Load() != 2 {
		t.Errorf("expected per-token cache entries (2 upstream GETs), got %d", hits.Load())
	}
}
