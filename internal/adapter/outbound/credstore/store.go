// Package credstore persists the session token and user record across CLI
// invocations. It is the durable half of the session: a single JSON document
// on disk, written atomically and readable by concurrent ojtrack processes.
package credstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/ojtrack/ojtrack/internal/domain/session"
)

// FileCredentialStore manages reading and writing the credentials file.
// It provides atomic writes (write-tmp-then-rename), file locking (flock for
// cross-process, mutex for in-process), and 0600 permissions since the file
// holds a live bearer token.
type FileCredentialStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// credentialsFile is the on-disk document: the two addressable entries
// (token and user) plus a bookkeeping timestamp.
type credentialsFile struct {
	Token     string        `json:"token"`
	User      *session.User `json:"user"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewFileCredentialStore creates a store for the given file path.
func NewFileCredentialStore(path string, logger *slog.Logger) *FileCredentialStore {
	return &FileCredentialStore{
		path:   path,
		logger: logger,
	}
}

// Load reads the credentials file and returns the stored token and user.
// A missing, unreadable, or malformed file is treated as "no session": Load
// never returns an error, because the session layer must come up empty rather
// than fail when local state is damaged.
func (s *FileCredentialStore) Load() (string, *session.User) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("credentials file unreadable, treating as absent",
				"path", s.path, "error", err)
		}
		return "", nil
	}

	// Warn if the file is readable by group/other. Skip on Windows where
	// Unix permission bits are not supported.
	if runtime.GOOS != "windows" {
		if info, statErr := os.Stat(s.path); statErr == nil {
			mode := info.Mode().Perm()
			if mode&0077 != 0 {
				s.logger.Warn("credentials file has too-open permissions, should be 0600",
					"path", s.path, "current_mode", fmt.Sprintf("%04o", mode))
			}
		}
	}

	var f credentialsFile
	if err := json.Unmarshal(data, &f); err != nil {
		s.logger.Warn("credentials file malformed, treating as absent",
			"path", s.path, "error", err)
		return "", nil
	}

	// A partial record (token without user, or vice versa) is as good as no
	// record: the session is either fully present or fully absent.
	if f.Token == "" || f.User == nil {
		return "", nil
	}

	return f.Token, f.User
}

// Save writes the token and user to disk atomically.
//
// The write sequence is:
//  1. Acquire in-process mutex
//  2. Acquire flock on path+".lock"
//  3. Marshal the credentials document
//  4. Write to path+".tmp" with 0600 permissions
//  5. Fsync the temp file
//  6. Rename path+".tmp" -> path
//  7. Release flock and mutex
func (s *FileCredentialStore) Save(token string, user *session.User) error {
	if token == "" || user == nil {
		return fmt.Errorf("refusing to save partial credentials")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create credentials dir: %w", err)
		}
	}

	lockPath := s.path + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer func() { _ = lockFile.Close() }()

	if err := flockLock(lockFile.Fd()); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer flockUnlock(lockFile.Fd()) //nolint:errcheck

	data, err := json.MarshalIndent(credentialsFile{
		Token:     token,
		User:      user,
		UpdatedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	data = append(data, '\n')

	if err := s.writeAtomic(data); err != nil {
		return err
	}

	// Explicitly ensure 0600 after rename as a safety net.
	if err := os.Chmod(s.path, 0600); err != nil {
		s.logger.Warn("failed to set permissions on credentials file", "error", err)
	}

	s.logger.Debug("credentials saved", "path", s.path)
	return nil
}

// Clear removes the credentials file. Clearing an already-empty store is a
// no-op success, so Clear is safe to call unconditionally during logout.
func (s *FileCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials file: %w", err)
	}
	// Best effort on the lock file; a stale lock is harmless.
	_ = os.Remove(s.path + ".lock")

	s.logger.Debug("credentials cleared", "path", s.path)
	return nil
}

// writeAtomic writes data to a temp file, fsyncs it, and renames it over the
// target path. On any error the temp file is cleaned up.
func (s *FileCredentialStore) writeAtomic(data []byte) error {
	tmpPath := s.path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := f.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp to credentials: %w", err)
	}
	return nil
}

// Exists returns true if the credentials file exists on disk.
func (s *FileCredentialStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the configured file path.
func (s *FileCredentialStore) Path() string {
	return s.path
}
