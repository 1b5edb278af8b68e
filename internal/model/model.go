// Package model defines the core domain types for the registration system.
package model

import (
	"strings"
	"time"
)

// DefaultRegistrationFee is the per-head fee in taka, used when no active
// event is available to read the fee from.
const DefaultRegistrationFee = 500

// Status is the resolution state of a registration.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus normalizes a status string to its canonical value. The older
// admin view used confirmed/cancelled for the same two outcomes; both are
// accepted as aliases and never stored.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, true
	case "approved", "confirmed":
		return StatusApproved, true
	case "rejected", "cancelled":
		return StatusRejected, true
	}
	return "", false
}

// Terminal reports whether s is one of the two resolution outcomes.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Registration represents one attendee's request to join the event.
type Registration struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	FullName      string    `json:"full_name"`
	Batch         string    `json:"batch"`
	Phone         string    `json:"phone"`
	PaymentMethod string    `json:"payment_method"`
	TransactionID string    `json:"transaction_id"`
	PaymentAmount int       `json:"payment_amount"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Event is the single event currently open for registration.
type Event struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	RegistrationFee     int       `json:"registration_fee"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
}

// Remaining returns the number of open seats.
func (e *Event) Remaining() int {
	return e.MaxParticipants - e.CurrentParticipants
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.CurrentParticipants >= e.MaxParticipants
}

// Stats are the aggregates derived from the full registration collection.
// They are recomputed from scratch on every read and never persisted.
type Stats struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Approved    int `json:"approved"`
	Rejected    int `json:"rejected"`
	TotalAmount int `json:"total_amount"`
}

// SubmitRequest is the payload for submitting a registration.
type SubmitRequest struct {
	FullName      string `json:"full_name" validate:"required"`
	Batch         string `json:"batch" validate:"required,oneof=17 19"`
	Phone         string `json:"phone" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=bkash nagad"`
	TransactionID string `json:"transaction_id" validate:"required"`
}

// ResolveRequest is the payload for resolving a pending registration.
type ResolveRequest struct {
	Status string `json:"status"`
}

// PaymentAccount describes a receiving account the attendee sends the fee to.
// Payment itself happens off-system; the attendee reports the transaction ID.
type PaymentAccount struct {
	Method string `json:"method"`
	Name   string `json:"name"`
	Number string `json:"number"`
	Kind   string `json:"kind"`
}

// PaymentAccounts returns the accounts shown on the registration form.
func PaymentAccounts() []PaymentAccount {
	return []PaymentAccount{
		{Method: "bkash", Name: "Bkash", Number: "01791-934192", Kind: "Personal"},
		{Method: "nagad", Name: "Nagad", Number: "01791-934192", Kind: "Personal"},
	}
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
