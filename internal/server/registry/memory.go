package registry

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/zkpauth/internal/common"
)

// MemoryStore is the in-process Store implementation. A single table mutex
// guards both maps, which keeps every compound read-modify-write and the
// auth_id remove-and-return trivially atomic. Suitable for single-instance
// deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	users   map[string]*UserRecord
	authIDs map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*UserRecord),
		authIDs: make(map[string]string),
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, rec *UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[rec.Username]; exists {
		return common.ErrAlreadyRegistered
	}
	s.users[rec.Username] = rec.Clone()
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, username string) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.users[username]
	if !exists {
		return nil, common.ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, username string, fn func(rec *UserRecord) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.users[username]
	if !exists {
		return common.ErrNotFound
	}

	// fn mutates a copy; the table only sees the result on success.
	clone := rec.Clone()
	if err := fn(clone); err != nil {
		return err
	}
	s.users[username] = clone
	return nil
}

func (s *MemoryStore) PutAuthID(ctx context.Context, authID, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authIDs[authID] = username
	return nil
}

func (s *MemoryStore) TakeAuthID(ctx context.Context, authID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username, exists := s.authIDs[authID]
	if !exists {
		return "", common.ErrNotFound
	}
	delete(s.authIDs, authID)
	return username, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
