package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"storefront/console/internal/logx"
	"storefront/console/internal/model"
)

type fileState struct {
	Token          string      `json:"authToken,omitempty"`
	TokenExpiresAt time.Time   `json:"authTokenExpiresAt,omitempty"`
	User           *model.User `json:"user,omitempty"`
}

// FileStore keeps state in a JSON file readable only by the owner.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// DefaultPath is <user config dir>/storefront/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "storefront", "session.json"), nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() (fileState, error) {
	var st fileState
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return fileState{}, fmt.Errorf("decode state: %w", err)
	}
	return st, nil
}

func (s *FileStore) save(st fileState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		logx.Warn().Err(err).Str("path", s.path).Msg("session state unreadable")
		return ""
	}
	if st.Token == "" || !s.now().Before(st.TokenExpiresAt) {
		return ""
	}
	return st.Token
}

func (s *FileStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	st.Token = token
	st.TokenExpiresAt = s.now().Add(TokenTTL)
	return s.save(st)
}

func (s *FileStore) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		logx.Warn().Err(err).Str("path", s.path).Msg("session state unreadable")
		return nil
	}
	return st.User
}

func (s *FileStore) SetUser(user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	st.User = &user
	return s.save(st)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove state: %w", err)
	}
	return nil
}
