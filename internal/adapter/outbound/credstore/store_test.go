package credstore

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ojtrack/ojtrack/internal/domain/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testUser() *session.User {
	return &session.User{ID: 7, Name: "Sam Trainee", Email: "sam@x.com", Role: session.RoleStudent}
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad_NoFile_ReturnsAbsent(t *testing.T) {
	s := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials.json"), testLogger())

	token, user := s.Load()
	if token != "" || user != nil {
		t.Errorf("expected absent session, got token=%q user=%v", token, user)
	}
}

func TestLoad_MalformedFile_ReturnsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	s := NewFileCredentialStore(path, testLogger())
	token, user := s.Load()
	if token != "" || user != nil {
		t.Errorf("malformed file must read as absent, got token=%q user=%v", token, user)
	}
}

func TestLoad_PartialRecord_ReturnsAbsent(t *testing.T) {
	// Token without user: the session is either fully present or fully absent.
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(`{"token":"abc"}`), 0600); err != nil {
		t.Fatal(err)
	}

	s := NewFileCredentialStore(path, testLogger())
	token, user := s.Load()
	if token != "" || user != nil {
		t.Errorf("partial record must read as absent, got token=%q user=%v", token, user)
	}
}

// ---------------------------------------------------------------------------
// Save
// ---------------------------------------------------------------------------

func TestSave_RoundTrip(t *testing.T) {
	s := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials.json"), testLogger())

	if err := s.Save("abc", testUser()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	token, user := s.Load()
	if token != "abc" {
		t.Errorf("expected token 'abc', got %q", token)
	}
	if user == nil || user.ID != 7 || user.Email != "sam@x.com" || user.Role != session.RoleStudent {
		t.Errorf("user did not round-trip: %+v", user)
	}
}

func TestSave_RefusesPartialWrite(t *testing.T) {
	s := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials.json"), testLogger())

	if err := s.Save("", testUser()); err == nil {
		t.Error("expected error saving empty token")
	}
	if err := s.Save("abc", nil); err == nil {
		t.Error("expected error saving nil user")
	}
	if s.Exists() {
		t.Error("refused save must not create a file")
	}
}

func TestSave_SetsFilePermissions0600(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not supported on Windows")
	}
	path := filepath.Join(t.TempDir(), "credentials.json")
	s := NewFileCredentialStore(path, testLogger())

	if err := s.Save("abc", testUser()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600, got %04o", perm)
	}
}

func TestSave_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "credentials.json")
	s := NewFileCredentialStore(path, testLogger())

	if err := s.Save("abc", testUser()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !s.Exists() {
		t.Error("expected credentials file to exist")
	}
}

func TestSave_AtomicWrite_NoTmpFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	s := NewFileCredentialStore(path, testLogger())

	if err := s.Save("abc", testUser()); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}

func TestSave_OverwritesPreviousSession(t *testing.T) {
	s := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials.json"), testLogger())

	if err := s.Save("old", testUser()); err != nil {
		t.Fatal(err)
	}
	admin := &session.User{ID: 1, Email: "admin@x.com", Role: session.RoleAdmin}
	if err := s.Save("new", admin); err != nil {
		t.Fatal(err)
	}

	token, user := s.Load()
	if token != "new" || user.Role != session.RoleAdmin {
		t.Errorf("expected new session, got token=%q user=%+v", token, user)
	}
}

func TestSave_WritesValidIndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	s := NewFileCredentialStore(path, testLogger())

	if err := s.Save("abc", testUser()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("file is not valid JSON: %v", err)
	}
	if doc["token"] != "abc" {
		t.Errorf("expected token field, got %v", doc["token"])
	}
	if doc["updated_at"] == nil {
		t.Error("expected updated_at field")
	}
}

// ---------------------------------------------------------------------------
// Clear
// ---------------------------------------------------------------------------

func TestClear_RemovesFile(t *testing.T) {
	s := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials.json"), testLogger())
	if err := s.Save("abc", testUser()); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if s.Exists() {
		t.Error("file still exists after clear")
	}
	if token, user := s.Load(); token != "" || user != nil {
		t.Error("load after clear must be absent")
	}
}

func TestClear_EmptyStore_Noop(t *testing.T) {
	s := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials.json"), testLogger())

	if err := s.Clear(); err != nil {
		t.Errorf("clearing an empty store must succeed, got %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("repeat clear must succeed, got %v", err)
	}
}
