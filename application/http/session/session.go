package session

import (
	"maps"
	"slices"

	"github.com/pkg/errors"
)

// Session is the request-scoped view of a stored session.
// It is not safe for concurrent use.
type Session struct {
	id        string
	values    map[string]string
	store     Store
	destroyed bool
}

// New loads the values of id from store.
func New(id string, store Store) (*Session, error) {
	values, err := store.Load(id)
	if err != nil {
		return nil, errors.Wrapf(err, "loading session %q", id)
	}
	if values == nil {
		values = map[string]string{}
	}

	return &Session{id: id, values: values, store: store}, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) Set(key, value string) { s.values[key] = value }

func (s *Session) Remove(key string) { delete(s.values, key) }

func (s *Session) Len() int { return len(s.values) }

// Keys returns sorted keys.
func (s *Session) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Encode stores v under key, encoded by f.
func (s *Session) Encode(key string, v any, f Formatter) error {
	text, err := f.Format(v)
	if err != nil {
		return errors.Wrapf(err, "encoding session value %q", key)
	}
	s.Set(key, text)
	return nil
}

// Decode reads the value under key into out.
// It reports false when the key is absent.
func (s *Session) Decode(key string, out any, f Formatter) (bool, error) {
	text, ok := s.Get(key)
	if !ok {
		return false, nil
	}
	if err := f.Parse(text, out); err != nil {
		return true, errors.Wrapf(err, "decoding session value %q", key)
	}
	return true, nil
}

// Persist saves the current values. It does nothing once destroyed.
func (s *Session) Persist() error {
	if s.destroyed {
		return nil
	}
	if err := s.store.Save(s.id, s.values); err != nil {
		return errors.Wrapf(err, "saving session %q", s.id)
	}
	return nil
}

// Destroy deletes the session from the store and clears local values.
func (s *Session) Destroy() error {
	clear(s.values)
	s.destroyed = true
	if err := s.store.Delete(s.id); err != nil {
		return errors.Wrapf(err, "deleting session %q", s.id)
	}
	return nil
}
