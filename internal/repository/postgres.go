package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smc-reunion/iftar-registration/internal/lifecycle"
	"github.com/smc-reunion/iftar-registration/internal/model"
)

const registrationColumns = `id, event_id, full_name, batch, phone,
	payment_method, transaction_id, payment_amount, status, created_at`

// PostgresRegistrationStore is the pgx-backed RegistrationStore.
type PostgresRegistrationStore struct {
	db *pgxpool.Pool
}

// NewPostgresRegistrationStore constructs a PostgresRegistrationStore.
func NewPostgresRegistrationStore(db *pgxpool.Pool) *PostgresRegistrationStore {
	return &PostgresRegistrationStore{db: db}
}

// List returns all registrations, newest first.
func (s *PostgresRegistrationStore) List(ctx context.Context) ([]model.Registration, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+registrationColumns+`
		 FROM registrations
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list registrations: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list registrations: %v", ErrUnavailable, err)
	}
	return regs, nil
}

// Get returns a single registration or ErrNotFound.
func (s *PostgresRegistrationStore) Get(ctx context.Context, id string) (model.Registration, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`,
		id,
	)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Registration{}, ErrNotFound
		}
		return model.Registration{}, fmt.Errorf("%w: get registration: %v", ErrUnavailable, err)
	}
	return reg, nil
}

// Insert persists a new registration with a generated UUID, the write-time
// timestamp, and status forced to pending regardless of input.
func (s *PostgresRegistrationStore) Insert(ctx context.Context, reg model.Registration) (model.Registration, error) {
	reg.ID = uuid.New().String()
	reg.Status = model.StatusPending
	reg.CreatedAt = time.Now().UTC()

	_, err := s.db.Exec(ctx,
		`INSERT INTO registrations
		   (id, event_id, full_name, batch, phone, payment_method,
		    transaction_id, payment_amount, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		reg.ID, reg.EventID, reg.FullName, reg.Batch, reg.Phone,
		reg.PaymentMethod, reg.TransactionID, reg.PaymentAmount,
		reg.Status, reg.CreatedAt,
	)
	if err != nil {
		return model.Registration{}, fmt.Errorf("%w: insert registration: %v", ErrUnavailable, err)
	}
	return reg, nil
}

// UpdateStatus resolves a pending registration. The update is conditional on
// the current status so two reviewers racing the same record cannot both
// win: the loser sees ErrAlreadyResolved.
func (s *PostgresRegistrationStore) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE registrations SET status = $2 WHERE id = $1 AND status = 'pending'`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("%w: update registration status: %v", ErrUnavailable, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing matched: either the id is unknown or the record already left
	// pending. Look at the row to tell the two apart.
	var current model.Status
	err = s.db.QueryRow(ctx,
		`SELECT status FROM registrations WHERE id = $1`, id,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: update registration status: %v", ErrUnavailable, err)
	}
	return lifecycle.ErrAlreadyResolved
}

// FindPendingByPhone returns the pending registration for a phone number.
func (s *PostgresRegistrationStore) FindPendingByPhone(ctx context.Context, phone string) (model.Registration, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+registrationColumns+`
		 FROM registrations
		 WHERE phone = $1 AND status = 'pending'
		 ORDER BY created_at DESC
		 LIMIT 1`,
		phone,
	)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Registration{}, ErrNotFound
		}
		return model.Registration{}, fmt.Errorf("%w: find pending by phone: %v", ErrUnavailable, err)
	}
	return reg, nil
}

func scanRegistration(row pgx.Row) (model.Registration, error) {
	var reg model.Registration
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.FullName, &reg.Batch, &reg.Phone,
		&reg.PaymentMethod, &reg.TransactionID, &reg.PaymentAmount,
		&reg.Status, &reg.CreatedAt,
	)
	return reg, err
}

// PostgresEventStore is the pgx-backed EventStore.
type PostgresEventStore struct {
	db *pgxpool.Pool
}

// NewPostgresEventStore constructs a PostgresEventStore.
func NewPostgresEventStore(db *pgxpool.Pool) *PostgresEventStore {
	return &PostgresEventStore{db: db}
}

// Active returns the single event marked active. A partial unique index in
// the schema guarantees at most one row qualifies.
func (s *PostgresEventStore) Active(ctx context.Context) (model.Event, error) {
	var e model.Event
	err := s.db.QueryRow(ctx,
		`SELECT id, title, description, registration_fee, max_participants,
		        current_participants, is_active, created_at
		 FROM events
		 WHERE is_active`,
	).Scan(
		&e.ID, &e.Title, &e.Description, &e.RegistrationFee,
		&e.MaxParticipants, &e.CurrentParticipants, &e.IsActive, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Event{}, ErrNotFound
		}
		return model.Event{}, fmt.Errorf("%w: get active event: %v", ErrUnavailable, err)
	}
	return e, nil
}
