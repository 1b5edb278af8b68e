package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/smc-reunion/iftar-registration/internal/lifecycle"
	"github.com/smc-reunion/iftar-registration/internal/model"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryRegistrationStore
	ctx   context.Context
	clock time.Time
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewMemoryRegistrationStore()
	s.store.Now = func() time.Time {
		s.clock = s.clock.Add(time.Minute)
		return s.clock
	}
}

func (s *MemoryStoreSuite) insert(name, phone string) model.Registration {
	reg, err := s.store.Insert(s.ctx, model.Registration{
		FullName:      name,
		Batch:         "17",
		Phone:         phone,
		PaymentMethod: "bkash",
		TransactionID: "TX" + name,
		PaymentAmount: 500,
		// A submitted status must not survive the insert.
		Status: model.StatusApproved,
	})
	s.Require().NoError(err)
	return reg
}

func (s *MemoryStoreSuite) TestInsert() {
	s.Run("assigns id and timestamp and forces pending", func() {
		reg := s.insert("Arafat", "01700000000")
		s.NotEmpty(reg.ID)
		s.False(reg.CreatedAt.IsZero())
		s.Equal(model.StatusPending, reg.Status)
	})
}

func (s *MemoryStoreSuite) TestList() {
	s.Run("returns newest first", func() {
		first := s.insert("Arafat", "01700000000")
		second := s.insert("Kamrul", "01700000001")

		regs, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(regs, 2)
		s.Equal(second.ID, regs[0].ID)
		s.Equal(first.ID, regs[1].ID)
	})
}

func (s *MemoryStoreSuite) TestUpdateStatus() {
	s.Run("resolves a pending registration", func() {
		reg := s.insert("Arafat", "01700000000")
		s.Require().NoError(s.store.UpdateStatus(s.ctx, reg.ID, model.StatusApproved))

		got, err := s.store.Get(s.ctx, reg.ID)
		s.Require().NoError(err)
		s.Equal(model.StatusApproved, got.Status)
		s.Equal(reg.CreatedAt, got.CreatedAt)
	})

	s.Run("unknown id returns ErrNotFound", func() {
		s.Require().ErrorIs(
			s.store.UpdateStatus(s.ctx, "missing", model.StatusApproved),
			ErrNotFound,
		)
	})

	s.Run("second resolution is refused", func() {
		reg := s.insert("Kamrul", "01700000001")
		s.Require().NoError(s.store.UpdateStatus(s.ctx, reg.ID, model.StatusRejected))

		err := s.store.UpdateStatus(s.ctx, reg.ID, model.StatusApproved)
		s.Require().ErrorIs(err, lifecycle.ErrAlreadyResolved)

		got, err := s.store.Get(s.ctx, reg.ID)
		s.Require().NoError(err)
		s.Equal(model.StatusRejected, got.Status)
	})

	s.Run("invalid target is refused", func() {
		reg := s.insert("Samiul", "01700000002")
		err := s.store.UpdateStatus(s.ctx, reg.ID, model.StatusPending)
		s.Require().ErrorIs(err, lifecycle.ErrInvalidTarget)
	})
}

func (s *MemoryStoreSuite) TestFindPendingByPhone() {
	s.Run("finds an outstanding pending registration", func() {
		reg := s.insert("Arafat", "01700000000")
		got, err := s.store.FindPendingByPhone(s.ctx, "01700000000")
		s.Require().NoError(err)
		s.Equal(reg.ID, got.ID)
	})

	s.Run("resolved registrations do not match", func() {
		reg := s.insert("Kamrul", "01700000001")
		s.Require().NoError(s.store.UpdateStatus(s.ctx, reg.ID, model.StatusApproved))

		_, err := s.store.FindPendingByPhone(s.ctx, "01700000001")
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("unknown phone returns ErrNotFound", func() {
		_, err := s.store.FindPendingByPhone(s.ctx, "01999999999")
		s.Require().ErrorIs(err, ErrNotFound)
	})
}

func TestMemoryEventStore(t *testing.T) {
	store := NewMemoryEventStore()
	ctx := context.Background()

	if _, err := store.Active(ctx); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound from empty store, got %v", err)
	}

	store.SetActive(model.Event{Title: "Iftar Gathering", RegistrationFee: 500, MaxParticipants: 100})
	event, err := store.Active(ctx)
	if err != nil {
		t.Fatalf("active event: %v", err)
	}
	if !event.IsActive || event.Title != "Iftar Gathering" {
		t.Fatalf("unexpected event %+v", event)
	}

	// Installing a second event replaces the first: one active at most.
	store.SetActive(model.Event{Title: "Eid Reunion", RegistrationFee: 600, MaxParticipants: 80})
	event, err = store.Active(ctx)
	if err != nil {
		t.Fatalf("active event after replace: %v", err)
	}
	if event.Title != "Eid Reunion" {
		t.Fatalf("expected replacement event, got %+v", event)
	}
}
