package crud

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "userbase/pkg/domain-errors"
	"userbase/pkg/platform/sentinel"
)

type note struct {
	ID     int
	Slug   string
	Body   string
	Pinned bool
}

type notePatch struct {
	Body *string
}

// fakeAdapter is a map-backed Adapter with per-operation error injection.
type fakeAdapter struct {
	notes map[int]note

	findByKeyErr error
	createErr    error
	updateErr    error
	deleteErr    error
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{notes: make(map[int]note)}
}

func (f *fakeAdapter) FindByKey(_ context.Context, key string) (note, error) {
	if f.findByKeyErr != nil {
		return note{}, f.findByKeyErr
	}
	for _, n := range f.notes {
		if n.Slug == key {
			return n, nil
		}
	}
	return note{}, sentinel.ErrNotFound
}

func (f *fakeAdapter) FindByID(_ context.Context, id int) (note, error) {
	n, ok := f.notes[id]
	if !ok {
		return note{}, sentinel.ErrNotFound
	}
	return n, nil
}

func (f *fakeAdapter) Create(_ context.Context, rec note) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.notes[rec.ID] = rec
	return nil
}

func (f *fakeAdapter) Update(_ context.Context, id int, patch notePatch) (note, error) {
	if f.updateErr != nil {
		return note{}, f.updateErr
	}
	n, ok := f.notes[id]
	if !ok {
		return note{}, sentinel.ErrNotFound
	}
	if patch.Body != nil {
		n.Body = *patch.Body
	}
	f.notes[id] = n
	return n, nil
}

func (f *fakeAdapter) Delete(_ context.Context, id int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.notes[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(f.notes, id)
	return nil
}

type ServiceSuite struct {
	suite.Suite
	adapter *fakeAdapter
	svc     *Service[note, int, notePatch]
	ctx     context.Context
}

func (s *ServiceSuite) SetupTest() {
	s.adapter = newFakeAdapter()
	s.svc = NewService[note, int, notePatch]("note", s.adapter, func(n note) string { return n.Slug })
	s.ctx = context.Background()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// TestCreate covers the uniqueness pre-check and the create path.
func (s *ServiceSuite) TestCreate() {
	s.Run("creates when key is free", func() {
		created, err := s.svc.Create(s.ctx, note{ID: 1, Slug: "first", Body: "hello"})
		s.Require().NoError(err)
		s.Equal("first", created.Slug)

		got, err := s.svc.Get(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal(created, got)
	})

	s.Run("rejects duplicate key with conflict", func() {
		_, err := s.svc.Create(s.ctx, note{ID: 2, Slug: "dup", Body: "a"})
		s.Require().NoError(err)

		_, err = s.svc.Create(s.ctx, note{ID: 3, Slug: "dup", Body: "b"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("maps uniqueness-check failure to internal", func() {
		s.adapter.findByKeyErr = sentinel.ErrUnavailable

		_, err := s.svc.Create(s.ctx, note{ID: 4, Slug: "down"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))

		s.adapter.findByKeyErr = nil
	})

	s.Run("maps storage create failure to internal", func() {
		// The documented race: the pre-check passed but the storage layer
		// rejected the write. Reported as internal, not conflict.
		s.adapter.createErr = sentinel.ErrConflict

		_, err := s.svc.Create(s.ctx, note{ID: 5, Slug: "raced"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))

		s.adapter.createErr = nil
	})
}

// TestGet covers read-by-id behavior.
func (s *ServiceSuite) TestGet() {
	s.Run("returns not found for unknown id", func() {
		_, err := s.svc.Get(s.ctx, 404)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("round-trips a created record", func() {
		created, err := s.svc.Create(s.ctx, note{ID: 10, Slug: "rt", Body: "body", Pinned: true})
		s.Require().NoError(err)

		got, err := s.svc.Get(s.ctx, 10)
		s.Require().NoError(err)
		s.Equal(created, got)
	})
}

// TestUpdate covers existence pre-check and partial updates.
func (s *ServiceSuite) TestUpdate() {
	s.Run("returns not found for unknown id", func() {
		body := "x"
		_, err := s.svc.Update(s.ctx, 404, notePatch{Body: &body})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("applies patch and preserves untouched fields", func() {
		_, err := s.svc.Create(s.ctx, note{ID: 20, Slug: "keep", Body: "old", Pinned: true})
		s.Require().NoError(err)

		body := "new"
		updated, err := s.svc.Update(s.ctx, 20, notePatch{Body: &body})
		s.Require().NoError(err)
		s.Equal("new", updated.Body)
		s.Equal("keep", updated.Slug)
		s.True(updated.Pinned)
	})

	s.Run("maps storage failure to internal", func() {
		_, err := s.svc.Create(s.ctx, note{ID: 21, Slug: "fail"})
		s.Require().NoError(err)

		s.adapter.updateErr = errors.New("write timeout")
		body := "x"
		_, err = s.svc.Update(s.ctx, 21, notePatch{Body: &body})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))

		s.adapter.updateErr = nil
	})
}

// TestDelete covers delete semantics including idempotence of the error path.
func (s *ServiceSuite) TestDelete() {
	s.Run("deletes an existing record", func() {
		_, err := s.svc.Create(s.ctx, note{ID: 30, Slug: "gone"})
		s.Require().NoError(err)

		s.Require().NoError(s.svc.Delete(s.ctx, 30))

		_, err = s.svc.Get(s.ctx, 30)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("second delete reports not found, never internal", func() {
		_, err := s.svc.Create(s.ctx, note{ID: 31, Slug: "twice"})
		s.Require().NoError(err)

		s.Require().NoError(s.svc.Delete(s.ctx, 31))

		err = s.svc.Delete(s.ctx, 31)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.False(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("maps storage failure to internal", func() {
		_, err := s.svc.Create(s.ctx, note{ID: 32, Slug: "err"})
		s.Require().NoError(err)

		s.adapter.deleteErr = errors.New("connection reset")
		err = s.svc.Delete(s.ctx, 32)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))

		s.adapter.deleteErr = nil
	})
}
