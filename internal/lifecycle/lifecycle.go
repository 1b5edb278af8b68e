// Package lifecycle owns the registration status state machine, the
// aggregate derivation, and the display projections. Everything here is a
// pure function of its inputs so the review path can recompute after every
// mutation without drift.
package lifecycle

import (
	"errors"
	"sort"

	"github.com/smc-reunion/iftar-registration/internal/model"
)

// ErrInvalidTarget is returned when a transition names a status outside the
// two resolution outcomes.
var ErrInvalidTarget = errors.New("target status must be approved or rejected")

// ErrAlreadyResolved is returned when a transition is applied to a
// registration that has already left pending.
var ErrAlreadyResolved = errors.New("registration already resolved")

// ValidateTarget checks that target is a legal resolution outcome.
func ValidateTarget(target model.Status) error {
	if !target.Terminal() {
		return ErrInvalidTarget
	}
	return nil
}

// Transition applies pending → target on a copy of reg and returns it.
// Only pending registrations may be resolved; resolving a resolved record
// fails with ErrAlreadyResolved rather than silently overwriting the
// earlier outcome. No field other than status changes.
func Transition(reg model.Registration, target model.Status) (model.Registration, error) {
	if err := ValidateTarget(target); err != nil {
		return model.Registration{}, err
	}
	if reg.Status != model.StatusPending {
		return model.Registration{}, ErrAlreadyResolved
	}
	reg.Status = target
	return reg, nil
}

// Derive computes the aggregates from the full registration collection.
// feePerHead is the active event's registration fee; the total amount only
// counts approved registrations.
func Derive(regs []model.Registration, feePerHead int) model.Stats {
	stats := model.Stats{Total: len(regs)}
	for _, reg := range regs {
		switch reg.Status {
		case model.StatusApproved:
			stats.Approved++
		case model.StatusRejected:
			stats.Rejected++
		default:
			stats.Pending++
		}
	}
	stats.TotalAmount = stats.Approved * feePerHead
	return stats
}

// View selects the ordering of the admin list.
type View string

const (
	// ViewCurrent orders by status priority: pending first, then approved,
	// then rejected, so outstanding work sits at the top.
	ViewCurrent View = "current"
	// ViewHistory orders by creation time, newest first.
	ViewHistory View = "history"
)

// ParseView normalizes a view string, defaulting to ViewCurrent.
func ParseView(s string) (View, bool) {
	switch s {
	case "", string(ViewCurrent):
		return ViewCurrent, true
	case string(ViewHistory):
		return ViewHistory, true
	}
	return "", false
}

var statusPriority = map[model.Status]int{
	model.StatusPending:  0,
	model.StatusApproved: 1,
	model.StatusRejected: 2,
}

// Project filters by status (the zero Status means no filter) and orders
// for display. Both orderings are stable: ties keep their input order. The
// input slice is never mutated.
func Project(regs []model.Registration, filter model.Status, view View) []model.Registration {
	out := make([]model.Registration, 0, len(regs))
	for _, reg := range regs {
		if filter != "" && reg.Status != filter {
			continue
		}
		out = append(out, reg)
	}

	switch view {
	case ViewHistory:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return statusPriority[out[i].Status] < statusPriority[out[j].Status]
		})
	}
	return out
}
