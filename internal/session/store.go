package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotLoggedIn is returned when no token has been persisted yet.
var ErrNotLoggedIn = errors.New("not logged in")

// Store persists the bearer token between invocations. One plain-text
// file, mode 0600, nothing else survives a process exit.
type Store struct {
	Path string
}

// DefaultStore places the token under the user config directory.
func DefaultStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving user config dir: %w", err)
	}

	return &Store{Path: filepath.Join(dir, "cvmatch", "token")}, nil
}

// Load returns the persisted token, trimmed. A missing file means the
// user never logged in; an existing but empty file is an error.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotLoggedIn
		}

		return "", fmt.Errorf("reading token from %q: %w", s.Path, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %q is empty", s.Path)
	}

	return token, nil
}

// Save writes the token, creating parent directories as needed.
func (s *Store) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("refusing to save an empty token")
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}

	if err := os.WriteFile(s.Path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing token to %q: %w", s.Path, err)
	}

	return nil
}

// Clear removes the persisted token. Clearing an absent token is fine.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token file %q: %w", s.Path, err)
	}

	return nil
}
