// Package repository implements persistence for registrations and events.
// Stores are interface-driven so the service layer can run against Postgres
// in production and the in-memory implementations in tests.
package repository

import (
	"context"
	"errors"

	"github.com/smc-reunion/iftar-registration/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnavailable is returned on transport or auth failures talking to the
// store. Callers treat it as transient and retryable.
var ErrUnavailable = errors.New("store unavailable")

// RegistrationStore handles persistence for registrations.
type RegistrationStore interface {
	// List returns every registration ordered by creation time descending.
	List(ctx context.Context) ([]model.Registration, error)
	// Get returns a single registration or ErrNotFound.
	Get(ctx context.Context, id string) (model.Registration, error)
	// Insert persists a new registration. The identifier and creation
	// timestamp are assigned here and the status is forced to pending.
	Insert(ctx context.Context, reg model.Registration) (model.Registration, error)
	// UpdateStatus resolves a pending registration. It fails with
	// ErrNotFound for an unknown id and lifecycle.ErrAlreadyResolved when
	// the record has already left pending.
	UpdateStatus(ctx context.Context, id string, status model.Status) error
	// FindPendingByPhone returns the pending registration for a phone
	// number, or ErrNotFound when there is none.
	FindPendingByPhone(ctx context.Context, phone string) (model.Registration, error)
}

// EventStore handles persistence for event configuration.
type EventStore interface {
	// Active returns the single event marked active, or ErrNotFound.
	Active(ctx context.Context) (model.Event, error)
}
