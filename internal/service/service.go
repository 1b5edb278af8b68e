// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the store layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/smc-reunion/iftar-registration/internal/lifecycle"
	"github.com/smc-reunion/iftar-registration/internal/metrics"
	"github.com/smc-reunion/iftar-registration/internal/model"
	"github.com/smc-reunion/iftar-registration/internal/notify"
	"github.com/smc-reunion/iftar-registration/internal/repository"
	"github.com/smc-reunion/iftar-registration/internal/session"
)

// ErrValidation is returned when a submission payload fails validation.
var ErrValidation = errors.New("invalid submission")

// ErrAlreadyRegistered is returned when the remembered phone number still
// has an outstanding pending registration.
var ErrAlreadyRegistered = errors.New("phone already has a pending registration")

// RegistrationService orchestrates the submission and review paths.
type RegistrationService struct {
	registrations repository.RegistrationStore
	events        repository.EventStore
	metrics       *metrics.Metrics
	validate      *validator.Validate
}

// New constructs a RegistrationService with its dependencies.
func New(
	registrations repository.RegistrationStore,
	events repository.EventStore,
	m *metrics.Metrics,
) *RegistrationService {
	return &RegistrationService{
		registrations: registrations,
		events:        events,
		metrics:       m,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ActiveEvent returns the event currently open for registration.
func (s *RegistrationService) ActiveEvent(ctx context.Context) (model.Event, error) {
	return s.events.Active(ctx)
}

// Registered reports whether the remembered phone number still has a
// pending registration. The guard is advisory: it only knows about the
// phone this client remembered, nothing stops another device.
func (s *RegistrationService) Registered(ctx context.Context, sess session.Store) (bool, error) {
	phone, err := sess.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	if phone == "" {
		return false, nil
	}

	_, err = s.registrations.FindPendingByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Submit validates a registration request, runs the duplicate guard, and
// writes the new pending registration. On success the phone number is
// remembered in the session for the guard's next visit.
func (s *RegistrationService) Submit(ctx context.Context, sess session.Store, req model.SubmitRequest) (model.Registration, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Batch = strings.TrimSpace(req.Batch)
	req.Phone = strings.TrimSpace(req.Phone)
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	req.TransactionID = strings.TrimSpace(req.TransactionID)

	if err := s.validate.Struct(req); err != nil {
		return model.Registration{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	blocked, err := s.Registered(ctx, sess)
	if err != nil {
		return model.Registration{}, err
	}
	if blocked {
		return model.Registration{}, ErrAlreadyRegistered
	}

	event, err := s.events.Active(ctx)
	if err != nil {
		return model.Registration{}, err
	}

	reg, err := s.registrations.Insert(ctx, model.Registration{
		EventID:       event.ID,
		FullName:      req.FullName,
		Batch:         req.Batch,
		Phone:         req.Phone,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		PaymentAmount: event.RegistrationFee,
	})
	if err != nil {
		return model.Registration{}, err
	}

	if err := sess.Save(ctx, reg.Phone); err != nil {
		return reg, fmt.Errorf("remember phone: %w", err)
	}

	s.metrics.SubmissionReceived()
	return reg, nil
}

// Resolve moves a pending registration to the requested outcome and
// returns the aggregates recomputed from a fresh read of the store. No
// locally patched view is trusted after a mutation.
func (s *RegistrationService) Resolve(ctx context.Context, id string, target model.Status) (model.Stats, error) {
	if err := lifecycle.ValidateTarget(target); err != nil {
		return model.Stats{}, err
	}
	if err := s.registrations.UpdateStatus(ctx, id, target); err != nil {
		return model.Stats{}, err
	}
	s.metrics.RegistrationResolved(string(target))
	return s.Stats(ctx)
}

// List returns registrations filtered by status (the zero Status means all)
// and ordered for the requested view.
func (s *RegistrationService) List(ctx context.Context, filter model.Status, view lifecycle.View) ([]model.Registration, error) {
	regs, err := s.registrations.List(ctx)
	if err != nil {
		return nil, err
	}
	return lifecycle.Project(regs, filter, view), nil
}

// Stats derives the aggregates from the full current collection.
func (s *RegistrationService) Stats(ctx context.Context) (model.Stats, error) {
	regs, err := s.registrations.List(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	fee, err := s.feePerHead(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	return lifecycle.Derive(regs, fee), nil
}

// SMS renders the notification text for a resolved registration and
// returns it with the phone number to send it to.
func (s *RegistrationService) SMS(ctx context.Context, id string) (phone, text string, err error) {
	reg, err := s.registrations.Get(ctx, id)
	if err != nil {
		return "", "", err
	}

	title := ""
	event, err := s.events.Active(ctx)
	switch {
	case err == nil:
		title = event.Title
	case errors.Is(err, repository.ErrNotFound):
		// Render falls back to a generic label.
	default:
		return "", "", err
	}

	text, err = notify.Render(reg, title)
	if err != nil {
		return "", "", err
	}
	return reg.Phone, text, nil
}

func (s *RegistrationService) feePerHead(ctx context.Context) (int, error) {
	event, err := s.events.Active(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.DefaultRegistrationFee, nil
		}
		return 0, err
	}
	return event.RegistrationFee, nil
}
