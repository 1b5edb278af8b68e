package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smc-reunion/iftar-registration/internal/lifecycle"
	"github.com/smc-reunion/iftar-registration/internal/model"
)

// In-memory stores keep tests and local bootstrap free of a database. They
// intentionally favor clarity over performance.
type MemoryRegistrationStore struct {
	mu   sync.RWMutex
	regs []model.Registration

	// Now stamps inserted records; tests override it for deterministic
	// ordering.
	Now func() time.Time
}

// NewMemoryRegistrationStore constructs an empty MemoryRegistrationStore.
func NewMemoryRegistrationStore() *MemoryRegistrationStore {
	return &MemoryRegistrationStore{Now: time.Now}
}

// List returns a copy of all registrations, newest first. Equal timestamps
// keep insertion order.
func (s *MemoryRegistrationStore) List(_ context.Context) ([]model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Registration, len(s.regs))
	copy(out, s.regs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Get returns a single registration or ErrNotFound.
func (s *MemoryRegistrationStore) Get(_ context.Context, id string) (model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, reg := range s.regs {
		if reg.ID == id {
			return reg, nil
		}
	}
	return model.Registration{}, ErrNotFound
}

// Insert appends a new registration with a generated UUID and the current
// timestamp, status forced to pending.
func (s *MemoryRegistrationStore) Insert(_ context.Context, reg model.Registration) (model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg.ID = uuid.New().String()
	reg.Status = model.StatusPending
	reg.CreatedAt = s.Now().UTC()
	s.regs = append(s.regs, reg)
	return reg, nil
}

// UpdateStatus resolves a pending registration through the state machine.
func (s *MemoryRegistrationStore) UpdateStatus(_ context.Context, id string, status model.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, reg := range s.regs {
		if reg.ID != id {
			continue
		}
		updated, err := lifecycle.Transition(reg, status)
		if err != nil {
			return err
		}
		s.regs[i] = updated
		return nil
	}
	return ErrNotFound
}

// FindPendingByPhone returns the pending registration for a phone number.
func (s *MemoryRegistrationStore) FindPendingByPhone(_ context.Context, phone string) (model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, reg := range s.regs {
		if reg.Phone == phone && reg.Status == model.StatusPending {
			return reg, nil
		}
	}
	return model.Registration{}, ErrNotFound
}

// MemoryEventStore holds at most one active event.
type MemoryEventStore struct {
	mu    sync.RWMutex
	event *model.Event
}

// NewMemoryEventStore constructs an empty MemoryEventStore.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{}
}

// SetActive installs the active event, replacing any previous one so the
// single-active invariant holds.
func (s *MemoryEventStore) SetActive(event model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.IsActive = true
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	s.event = &event
}

// Active returns the active event or ErrNotFound.
func (s *MemoryEventStore) Active(_ context.Context) (model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.event == nil {
		return model.Event{}, ErrNotFound
	}
	return *s.event, nil
}
