// Package filestore keeps the credential record in a JSON file so a command
// line session survives between invocations.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-studio-portal/credentials"
	"github.com/rs/zerolog"
)

var _ credentials.Store = (*Store)(nil)

// Store reads the file on every Get so writes from other processes are seen.
// The file is replaced atomically and only readable by its owner.
type Store struct {
	path   string
	logger zerolog.Logger
	lock   sync.Mutex
}

type Option func(*Store)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func New(path string, options ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("[filestore.New] path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("[filestore.New] create directory: %w", err)
	}
	s := &Store{
		path:   path,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// DefaultPath returns ~/.config/studio-portal/session.json, falling back to the working directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(dir, "studio-portal", "session.json")
}

func (s *Store) Get(_ context.Context, key credentials.Key) (string, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	values, err := s.read()
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("credential file unreadable")
		return "", false
	}
	v, ok := values[string(key)]
	return v, ok
}

func (s *Store) Set(ctx context.Context, key credentials.Key, value string) {
	s.Update(ctx, map[credentials.Key]string{key: value})
}

func (s *Store) Update(_ context.Context, set map[credentials.Key]string, remove ...credentials.Key) {
	s.lock.Lock()
	defer s.lock.Unlock()
	values, err := s.read()
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("credential file unreadable, starting empty")
		values = make(map[string]string)
	}
	for _, k := range remove {
		delete(values, string(k))
	}
	for k, v := range set {
		values[string(k)] = v
	}
	if err := s.write(values); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("credential file write dropped")
	}
}

func (s *Store) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, err
	}
	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	return values, nil
}

func (s *Store) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
