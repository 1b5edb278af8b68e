// Package session carries the one piece of client-local state the system
// keeps: the phone number remembered after a successful submission. The
// duplicate-registration guard reads it on the next visit. It is an
// explicit, injectable value rather than ambient storage so the guard is
// testable without a browser.
package session

import (
	"context"
	"sync"
)

// Store remembers at most one phone number for the submitting client.
// The guard built on it is advisory: a different device, or a cleared
// store, can still submit again for the same phone. That is a documented
// limitation, not a defect.
type Store interface {
	// Load returns the remembered phone number, or "" when none is set.
	Load(ctx context.Context) (string, error)
	// Save remembers phone, replacing any earlier value.
	Save(ctx context.Context, phone string) error
	// Clear forgets the remembered phone number.
	Clear(ctx context.Context) error
}

// Memory is the in-process Store used by tests and local tooling.
type Memory struct {
	mu    sync.RWMutex
	phone string
}

// NewMemory constructs an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phone, nil
}

func (m *Memory) Save(_ context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phone = phone
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phone = ""
	return nil
}
