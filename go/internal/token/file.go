package token

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileStore persists the token to a file so a session survives restarts,
// the way the web client keeps it in local storage. Reads are served from
// memory; the file is only touched on SetToken and Clear.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	token string
}

// NewFileStore opens (or initializes) a file-backed store at path. A
// missing file is not an error; it just means nobody is signed in yet.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		s.token = strings.TrimSpace(string(data))
	case os.IsNotExist(err):
		// first run
	default:
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	return s, nil
}

func (s *FileStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *FileStore) SetToken(tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(tok+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	s.token = tok
	log.Debug().Str("path", s.path).Msg("stored session token")
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	s.token = ""
	return nil
}
