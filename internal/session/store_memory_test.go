package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "userbase/pkg/domain"
	"userbase/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite

	store *MemoryStore
	ctx   context.Context
	now   time.Time
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewMemoryStore(WithClock(func() time.Time { return s.now }))
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) makeSession(ttl time.Duration) *Session {
	sess := &Session{
		ID:        id.SessionID(uuid.New()),
		UserID:    id.NewUserID(),
		Token:     uuid.NewString(),
		CreatedAt: s.now,
	}
	if ttl > 0 {
		sess.ExpiresAt = s.now.Add(ttl)
	}
	return sess
}

func (s *MemoryStoreSuite) TestLookup() {
	s.Run("resolves a stored token", func() {
		sess := s.makeSession(time.Hour)
		s.Require().NoError(s.store.Put(s.ctx, sess))

		got, err := s.store.Lookup(s.ctx, sess.Token)
		s.Require().NoError(err)
		s.Equal(sess.UserID, got.UserID)
		s.Equal(sess.ID, got.ID)
	})

	s.Run("returns a copy", func() {
		sess := s.makeSession(time.Hour)
		s.Require().NoError(s.store.Put(s.ctx, sess))

		got, err := s.store.Lookup(s.ctx, sess.Token)
		s.Require().NoError(err)
		got.UserID = id.NewUserID()

		again, err := s.store.Lookup(s.ctx, sess.Token)
		s.Require().NoError(err)
		s.Equal(sess.UserID, again.UserID)
	})

	s.Run("reports not found for an unknown token", func() {
		_, err := s.store.Lookup(s.ctx, "nope")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("reports expired past the expiry", func() {
		sess := s.makeSession(time.Minute)
		s.Require().NoError(s.store.Put(s.ctx, sess))

		s.now = s.now.Add(2 * time.Minute)
		_, err := s.store.Lookup(s.ctx, sess.Token)
		s.ErrorIs(err, sentinel.ErrExpired)
	})

	s.Run("a session without expiry never expires", func() {
		sess := s.makeSession(0)
		s.Require().NoError(s.store.Put(s.ctx, sess))

		s.now = s.now.Add(1000 * time.Hour)
		_, err := s.store.Lookup(s.ctx, sess.Token)
		s.NoError(err)
	})
}

func (s *MemoryStoreSuite) TestDelete() {
	sess := s.makeSession(time.Hour)
	s.Require().NoError(s.store.Put(s.ctx, sess))

	s.Require().NoError(s.store.Delete(s.ctx, sess.Token))

	_, err := s.store.Lookup(s.ctx, sess.Token)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.NoError(s.store.Delete(s.ctx, sess.Token), "deleting an unknown token is a no-op")
}
