// Package credentials stores the post-author secret outside the cache
// database, in a mode-0600 file. The two failure modes are distinct on
// purpose: an absent key means the user never entered one and should be
// prompted; a denied read means a key exists but cannot be accessed, and
// the calling surface should lock instead of prompting.
package credentials

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zhufucdev/control-sync/internal/errors"
)

const (
	credentialDirPerm  = fs.FileMode(0o700)
	credentialFilePerm = fs.FileMode(0o600)
)

// Store reads and writes the auth key at a fixed path.
type Store struct {
	path string
}

// DefaultPath returns ~/.control-sync/auth-key.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}

	return filepath.Join(home, ".control-sync", "auth-key"), nil
}

// NewStore creates a credential store over the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// AuthKey returns the stored secret. A missing file resolves to
// ErrCredentialAbsent, a permission failure to ErrCredentialDenied.
func (s *Store) AuthKey() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.ErrCredentialAbsent
		}

		if os.IsPermission(err) {
			return "", fmt.Errorf("reading %s: %w", s.path, errors.ErrCredentialDenied)
		}

		return "", fmt.Errorf("reading credential file: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", errors.ErrCredentialAbsent
	}

	return key, nil
}

// SetAuthKey stores the secret, or removes it when newKey is empty.
func (s *Store) SetAuthKey(newKey string) error {
	if newKey == "" {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing credential file: %w", err)
		}

		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), credentialDirPerm); err != nil {
		return fmt.Errorf("creating credential directory: %w", err)
	}

	if err := os.WriteFile(s.path, []byte(newKey+"\n"), credentialFilePerm); err != nil {
		return fmt.Errorf("writing credential file: %w", err)
	}

	return nil
}
