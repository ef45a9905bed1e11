package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNoSession is returned when no session key has been stored for a client
var ErrNoSession = errors.New("no stored session")

// Session is the persisted authentication token of a client
type Session struct {
	SessionKey string `json:"sessionKey"`
	ClientCode string `json:"clientCode"`
}

// Store persists session keys and browser storage state per client code
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the storage directory
func (s *Store) Dir() string {
	return s.dir
}

// StatePath returns the browser storage-state file of a client
func (s *Store) StatePath(clientCode string) string {
	return filepath.Join(s.dir, clientCode+"-user.json")
}

// SessionPath returns the session-key file of a client
func (s *Store) SessionPath(clientCode string) string {
	return filepath.Join(s.dir, clientCode+"-session.json")
}

// HasValidSession reports whether a browser storage state exists for the
// client. Presence is all that is checked; the backend may have expired it.
func (s *Store) HasValidSession(clientCode string) (bool, error) {
	_, err := os.Stat(s.StatePath(clientCode))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat storage state: %w", err)
}

// SaveSession writes the session key of a client, replacing any previous one
func (s *Store) SaveSession(clientCode, sessionKey string) error {
	data, err := json.MarshalIndent(Session{SessionKey: sessionKey, ClientCode: clientCode}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.write(s.SessionPath(clientCode), data, 0o600)
}

// LoadSession reads the session key of a client from disk. It is read on
// every call so a key rotated by another process is picked up.
func (s *Store) LoadSession(clientCode string) (string, error) {
	data, err := os.ReadFile(s.SessionPath(clientCode))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("client %s: %w", clientCode, ErrNoSession)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return "", fmt.Errorf("failed to parse session file %s: %w", s.SessionPath(clientCode), err)
	}
	if sess.SessionKey == "" {
		return "", fmt.Errorf("client %s: %w", clientCode, ErrNoSession)
	}
	return sess.SessionKey, nil
}

// SaveBrowserState writes a serialized browser storage state for a client
func (s *Store) SaveBrowserState(clientCode string, state []byte) error {
	if !json.Valid(state) {
		return fmt.Errorf("browser state for client %s is not valid JSON", clientCode)
	}
	return s.write(s.StatePath(clientCode), state, 0o600)
}

// Remove deletes both files of a client so the next bootstrap starts over
func (s *Store) Remove(clientCode string) error {
	for _, path := range []string{s.StatePath(clientCode), s.SessionPath(clientCode)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

// write replaces path wholesale via a temporary file in the same directory
func (s *Store) write(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
