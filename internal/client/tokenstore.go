package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// tokenFileName is the fixed application key under which the bearer token is
// persisted, the counterpart of the browser client's local-storage key.
const tokenFileName = "mistake_journal_token"

// TokenStore persists the bearer token across sessions in the user config
// directory. Load on startup, Clear on explicit logout.
type TokenStore struct {
	path string
}

// NewTokenStore resolves the default token location.
func NewTokenStore() (*TokenStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return &TokenStore{path: filepath.Join(dir, "mistake-journal", tokenFileName)}, nil
}

// NewTokenStoreAt uses an explicit path, primarily for tests.
func NewTokenStoreAt(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load returns the saved token, or empty when none is stored.
func (s *TokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// Save writes the token with owner-only permissions.
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
