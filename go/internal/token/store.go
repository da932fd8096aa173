// Package token holds the bearer credential shared by every authenticated
// call. The store is written by login/signup, read everywhere, and cleared
// only by an explicit logout; call sites depend on the Store interface so
// tests can substitute an in-memory fake.
package token

import "sync"

// Store is the process-wide credential store.
type Store interface {
	// Token returns the current bearer token; ok is false when none is set.
	Token() (token string, ok bool)
	// SetToken stores the credential obtained from login or signup.
	SetToken(token string) error
	// Clear removes the credential on logout.
	Clear() error
}

// MemoryStore keeps the token in process memory. Used in tests and by
// short-lived tools that log in on every run.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
