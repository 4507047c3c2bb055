package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"userbase/internal/user/models"
	id "userbase/pkg/domain"
	"userbase/pkg/platform/sentinel"
)

// Memory is a mutex-guarded in-memory user store. It enforces the same
// contract as the PostgreSQL backend, including case-insensitive email
// uniqueness, so tests and development runs see identical behavior.
type Memory struct {
	mu      sync.RWMutex
	users   map[id.UserID]*models.User
	byEmail map[string]id.UserID
	clock   func() time.Time
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithClock sets the clock used to stamp updates. Tests inject a fixed clock.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// NewMemory constructs an empty in-memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		users:   make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *Memory) FindByKey(_ context.Context, key string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	userID, ok := m.byEmail[emailKey(key)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return m.users[userID].Clone(), nil
}

func (m *Memory) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return user.Clone(), nil
}

func (m *Memory) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := emailKey(user.Email)
	if _, taken := m.byEmail[key]; taken {
		return sentinel.ErrConflict
	}
	if _, taken := m.users[user.ID]; taken {
		return sentinel.ErrConflict
	}

	m.users[user.ID] = user.Clone()
	m.byEmail[key] = user.ID
	return nil
}

func (m *Memory) Update(_ context.Context, userID id.UserID, patch models.UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	if patch.Email != nil {
		newKey := emailKey(*patch.Email)
		if owner, taken := m.byEmail[newKey]; taken && owner != userID {
			return nil, sentinel.ErrConflict
		}
		delete(m.byEmail, emailKey(user.Email))
		m.byEmail[newKey] = userID
	}

	updated := user.Clone()
	updated.Apply(patch, m.clock())
	m.users[userID] = updated
	return updated.Clone(), nil
}

func (m *Memory) Delete(_ context.Context, userID id.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(m.byEmail, emailKey(user.Email))
	delete(m.users, userID)
	return nil
}

func (m *Memory) List(_ context.Context) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u.Clone())
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Email < users[j].Email
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}
