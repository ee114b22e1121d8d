package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process UserStore for tests and offline/dev mode.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string]User{}}
}

var _ UserStore = (*MemoryStore)(nil)

func (m *MemoryStore) Create(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *MemoryStore) GetByID(_ context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (m *MemoryStore) GetByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email != "" && u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (m *MemoryStore) GetByPhone(_ context.Context, phone string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.PhoneNumber != "" && u.PhoneNumber == phone {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (m *MemoryStore) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.LastLoginAt = &at
	m.users[id] = u
	return nil
}
