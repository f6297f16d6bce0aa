package profile

import "sync"

// Reader exposes the active cloned voice without allowing changes.
type Reader interface {
	Active() (string, bool)
}

// Store holds at most one active cloned voice reference.
// The zero value is ready to use and has no active clone.
type Store struct {
	path  string
	mutex sync.RWMutex
}

var _ Reader = &Store{}

// SetActive makes path the active cloned voice, replacing any previous one.
// It returns the path that was active before, if any.
func (s *Store) SetActive(path string) (string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	prev := s.path
	s.path = path
	return prev, prev != ""
}

// Clear reverts to the default voice.
func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.path = ""
}

// Active returns the cloned voice path when one is set.
func (s *Store) Active() (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.path, s.path != ""
}
