package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/smc-reunion/iftar-registration/internal/model"
)

type LifecycleSuite struct {
	suite.Suite
	base time.Time
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.base = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func (s *LifecycleSuite) reg(name string, status model.Status, minutesAgo int) model.Registration {
	return model.Registration{
		ID:        name,
		FullName:  name,
		Batch:     "17",
		Phone:     "01700000000",
		Status:    status,
		CreatedAt: s.base.Add(-time.Duration(minutesAgo) * time.Minute),
	}
}

func (s *LifecycleSuite) TestTransition() {
	s.Run("pending moves to the requested outcome and nothing else changes", func() {
		before := s.reg("a", model.StatusPending, 5)
		after, err := Transition(before, model.StatusApproved)
		s.Require().NoError(err)
		s.Equal(model.StatusApproved, after.Status)

		after.Status = before.Status
		s.Equal(before, after)
	})

	s.Run("pending can be rejected", func() {
		after, err := Transition(s.reg("a", model.StatusPending, 5), model.StatusRejected)
		s.Require().NoError(err)
		s.Equal(model.StatusRejected, after.Status)
	})

	s.Run("target outside the two outcomes is rejected", func() {
		_, err := Transition(s.reg("a", model.StatusPending, 5), model.StatusPending)
		s.Require().ErrorIs(err, ErrInvalidTarget)

		_, err = Transition(s.reg("a", model.StatusPending, 5), model.Status("archived"))
		s.Require().ErrorIs(err, ErrInvalidTarget)
	})

	s.Run("resolved records cannot be re-resolved", func() {
		_, err := Transition(s.reg("a", model.StatusApproved, 5), model.StatusRejected)
		s.Require().ErrorIs(err, ErrAlreadyResolved)

		_, err = Transition(s.reg("a", model.StatusRejected, 5), model.StatusApproved)
		s.Require().ErrorIs(err, ErrAlreadyResolved)
	})
}

func (s *LifecycleSuite) TestDerive() {
	s.Run("empty collection derives all zeroes", func() {
		s.Equal(model.Stats{}, Derive(nil, model.DefaultRegistrationFee))
	})

	s.Run("counts partition the collection", func() {
		regs := []model.Registration{
			s.reg("a", model.StatusPending, 1),
			s.reg("b", model.StatusApproved, 2),
			s.reg("c", model.StatusApproved, 3),
			s.reg("d", model.StatusRejected, 4),
			s.reg("e", model.StatusPending, 5),
		}
		stats := Derive(regs, 500)
		s.Equal(5, stats.Total)
		s.Equal(2, stats.Pending)
		s.Equal(2, stats.Approved)
		s.Equal(1, stats.Rejected)
		s.Equal(stats.Total, stats.Pending+stats.Approved+stats.Rejected)
	})

	s.Run("total amount is approved count times the fee", func() {
		regs := []model.Registration{
			s.reg("a", model.StatusApproved, 1),
			s.reg("b", model.StatusApproved, 2),
			s.reg("c", model.StatusPending, 3),
			s.reg("d", model.StatusRejected, 4),
		}
		s.Equal(2*500, Derive(regs, 500).TotalAmount)
	})

	s.Run("derivation is idempotent over an unchanged collection", func() {
		regs := []model.Registration{
			s.reg("a", model.StatusApproved, 1),
			s.reg("b", model.StatusPending, 2),
		}
		s.Equal(Derive(regs, 500), Derive(regs, 500))
	})
}

func (s *LifecycleSuite) TestProject() {
	regs := []model.Registration{
		s.reg("old-approved", model.StatusApproved, 60),
		s.reg("new-pending", model.StatusPending, 1),
		s.reg("old-rejected", model.StatusRejected, 45),
		s.reg("old-pending", model.StatusPending, 30),
		s.reg("new-approved", model.StatusApproved, 2),
	}

	s.Run("current view orders pending before approved before rejected", func() {
		got := Project(regs, "", ViewCurrent)
		s.Require().Len(got, 5)
		s.Equal("new-pending", got[0].ID)
		s.Equal("old-pending", got[1].ID)
		s.Equal("old-approved", got[2].ID)
		s.Equal("new-approved", got[3].ID)
		s.Equal("old-rejected", got[4].ID)
	})

	s.Run("current view ignores timestamps across priorities", func() {
		got := Project(regs, "", ViewCurrent)
		// old-pending sorts ahead of the much newer approved records.
		s.Less(indexOf(got, "old-pending"), indexOf(got, "new-approved"))
	})

	s.Run("history view orders newest first", func() {
		got := Project(regs, "", ViewHistory)
		s.Require().Len(got, 5)
		s.Equal("new-pending", got[0].ID)
		s.Equal("new-approved", got[1].ID)
		s.Equal("old-pending", got[2].ID)
		s.Equal("old-rejected", got[3].ID)
		s.Equal("old-approved", got[4].ID)
	})

	s.Run("equal timestamps keep input order in history view", func() {
		tied := []model.Registration{
			s.reg("first", model.StatusApproved, 10),
			s.reg("second", model.StatusPending, 10),
			s.reg("third", model.StatusRejected, 10),
		}
		got := Project(tied, "", ViewHistory)
		s.Equal([]string{"first", "second", "third"}, ids(got))
	})

	s.Run("same-priority records keep input order in current view", func() {
		got := Project(regs, "", ViewCurrent)
		s.Less(indexOf(got, "old-approved"), indexOf(got, "new-approved"))
	})

	s.Run("status filter keeps only matching records", func() {
		got := Project(regs, model.StatusPending, ViewCurrent)
		s.Equal([]string{"new-pending", "old-pending"}, ids(got))
	})

	s.Run("input slice is not mutated", func() {
		before := ids(regs)
		_ = Project(regs, "", ViewHistory)
		s.Equal(before, ids(regs))
	})
}

func ids(regs []model.Registration) []string {
	out := make([]string, len(regs))
	for i, reg := range regs {
		out[i] = reg.ID
	}
	return out
}

func indexOf(regs []model.Registration, id string) int {
	for i, reg := range regs {
		if reg.ID == id {
			return i
		}
	}
	return -1
}
