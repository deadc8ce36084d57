package user

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// InMemStorage is a Storage backed by maps, for tests.
type InMemStorage struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]*User
	hashes map[uuid.UUID][]byte
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{
		users:  make(map[uuid.UUID]*User),
		hashes: make(map[uuid.UUID][]byte),
	}
}

func (s *InMemStorage) CreateUser(ctx context.Context, u *User, passwordHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrEmailAlreadyExists
		}
	}
	copied := *u
	s.users[u.ID] = &copied
	s.hashes[u.ID] = slices.Clone(passwordHash)
	return nil
}

func (s *InMemStorage) UserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *InMemStorage) UserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemStorage) PasswordHash(ctx context.Context, id uuid.UUID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hash, ok := s.hashes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(hash), nil
}

func (s *InMemStorage) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	s.hashes[id] = slices.Clone(hash)
	return nil
}

func (s *InMemStorage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	delete(s.hashes, id)
	return nil
}
