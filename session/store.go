// Package session persists the bearer token and cached user profile
// between invocations. The token and profile are always written and
// cleared together; a malformed session file degrades to an empty
// session instead of failing.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/svega/cinelist/api"
)

// Store holds the current session. Implementations must treat the
// token and cached user as a unit: both present or both absent.
type Store interface {
	// Save commits a new session, replacing any existing one.
	Save(token string, user *api.User) error
	// Clear removes the session. Clearing an empty store is a no-op.
	Clear() error
	// Token returns the bearer credential, or "" when logged out.
	Token() string
	// User returns the cached profile, or nil when none is stored or
	// the stored data is unreadable.
	User() *api.User
	// IsAuthenticated reports whether a credential is present.
	IsAuthenticated() bool
}

// sessionFile is the on-disk layout.
type sessionFile struct {
	Token string    `json:"token"`
	User  *api.User `json:"user,omitempty"`
}

// FileStore keeps the session in a JSON file. Reads go to disk every
// time so concurrent invocations of the CLI observe each other's
// logins and logouts.
type FileStore struct {
	path   string
	logger zerolog.Logger
}

// compile-time interface checks
var (
	_ Store           = (*FileStore)(nil)
	_ api.TokenSource = (*FileStore)(nil)
)

// DefaultPath returns the standard session file location under the
// user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".cinelist", "session.json"), nil
}

// NewFileStore creates a file-backed session store. An empty path
// selects the default location.
func NewFileStore(path string, logger zerolog.Logger) (*FileStore, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &FileStore{path: path, logger: logger}, nil
}

// Path returns the session file location.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the token and user profile to disk in one file write.
func (s *FileStore) Save(token string, user *api.User) error {
	data, err := json.MarshalIndent(sessionFile{Token: token, User: user}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	s.logger.Debug().Str("path", s.path).Msg("Session saved")
	return nil
}

// Clear removes the session file.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	s.logger.Debug().Str("path", s.path).Msg("Session cleared")
	return nil
}

// Token returns the stored credential, or "" when no session exists.
func (s *FileStore) Token() string {
	return s.read().Token
}

// User returns the cached profile, or nil when absent or unreadable.
func (s *FileStore) User() *api.User {
	return s.read().User
}

// IsAuthenticated reports whether a credential is present.
func (s *FileStore) IsAuthenticated() bool {
	return s.Token() != ""
}

// read loads the session file, degrading to an empty session on any
// read or parse failure.
func (s *FileStore) read() sessionFile {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Failed to read session file")
		}
		return sessionFile{}
	}

	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Session file is malformed, treating as logged out")
		return sessionFile{}
	}
	return sf
}
