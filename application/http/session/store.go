package session

import (
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

var ErrInvalidID = errors.New("invalid session id")

// Store loads and saves session values by id.
// Loading an unknown id yields an empty mapping, not an error.
type Store interface {
	Load(id string) (map[string]string, error)
	Save(id string, values map[string]string) error
	Delete(id string) error
}

type memoryEntry struct {
	values  map[string]string
	expires time.Time
}

// MemoryStore keeps sessions in memory. Entries expire ttl after their
// last save; zero ttl keeps them forever.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	ttl     time.Duration
	entries map[string]memoryEntry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(clock clock.Clock, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Load(id string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return map[string]string{}, nil
	}

	if s.expired(entry) {
		delete(s.entries, id)
		return map[string]string{}, nil
	}

	return maps.Clone(entry.values), nil
}

func (s *MemoryStore) Save(id string, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{values: maps.Clone(values)}
	if entry.values == nil {
		entry.values = map[string]string{}
	}
	if s.ttl > 0 {
		entry.expires = s.clock.Now().Add(s.ttl)
	}
	s.entries[id] = entry

	return nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// Len counts live sessions, dropping expired ones.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, id)
		}
	}
	return len(s.entries)
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expires.IsZero() && !s.clock.Now().Before(e.expires)
}

// FileStore keeps one file per session under a directory, encoded with
// a Formatter.
type FileStore struct {
	mu     sync.Mutex
	dir    string
	format Formatter
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dir string, format Formatter) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating session directory")
	}
	return &FileStore{dir: dir, format: format}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if !ValidID(id) {
		return "", errors.Wrapf(ErrInvalidID, "%q", id)
	}
	return filepath.Join(s.dir, id), nil
}

func (s *FileStore) Load(id string) (map[string]string, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "reading session")
	}

	values := map[string]string{}
	if err := s.format.Parse(string(raw), &values); err != nil {
		return nil, errors.Wrap(err, "decoding session")
	}
	return values, nil
}

func (s *FileStore) Save(id string, values map[string]string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	text, err := s.format.Format(values)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return errors.Wrap(err, "writing session")
	}
	return nil
}

func (s *FileStore) Delete(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "removing session")
	}
	return nil
}
