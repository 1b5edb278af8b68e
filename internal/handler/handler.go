// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smc-reunion/iftar-registration/internal/lifecycle"
	"github.com/smc-reunion/iftar-registration/internal/model"
	"github.com/smc-reunion/iftar-registration/internal/notify"
	"github.com/smc-reunion/iftar-registration/internal/repository"
	"github.com/smc-reunion/iftar-registration/internal/service"
)

// RegistrationHandler holds all HTTP handlers for the registration API.
type RegistrationHandler struct {
	svc *service.RegistrationService
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(svc *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ─── Public handlers ──────────────────────────────────────────────────────────

// eventResponse bundles the active event with the accounts the attendee
// sends the fee to, so the form can render the payment block.
type eventResponse struct {
	model.Event
	PaymentAccounts []model.PaymentAccount `json:"payment_accounts"`
}

// GetEvent handles GET /api/event
// Returns the single event currently open for registration.
func (h *RegistrationHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.ActiveEvent(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no event is open for registration")
			return
		}
		writeError(w, http.StatusServiceUnavailable, "failed to load event, please try again")
		return
	}

	writeJSON(w, http.StatusOK, eventResponse{
		Event:           event,
		PaymentAccounts: model.PaymentAccounts(),
	})
}

// Submit handles POST /api/registrations
// Creates a new pending registration after the duplicate guard passes, and
// remembers the phone number in the client session cookie.
func (h *RegistrationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	reg, err := h.svc.Submit(r.Context(), newCookieSession(w, r), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAlreadyRegistered):
			writeError(w, http.StatusConflict, "you already have a pending registration")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "no event is open for registration")
		default:
			writeError(w, http.StatusServiceUnavailable, "failed to submit registration, please try again")
		}
		return
	}

	writeJSON(w, http.StatusCreated, reg)
}

// Check handles GET /api/registrations/check
// Reports whether the remembered phone still has a pending registration.
func (h *RegistrationHandler) Check(w http.ResponseWriter, r *http.Request) {
	registered, err := h.svc.Registered(r.Context(), newCookieSession(w, r))
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "failed to check registration, please try again")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"registered": registered})
}

// ─── Admin handlers ───────────────────────────────────────────────────────────

// ListRegistrations handles GET /api/admin/registrations?status=&view=
// Returns registrations filtered and ordered for the requested view.
func (h *RegistrationHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	var filter model.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := model.ParseStatus(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown status filter: "+raw)
			return
		}
		filter = parsed
	}

	view, ok := lifecycle.ParseView(r.URL.Query().Get("view"))
	if !ok {
		writeError(w, http.StatusBadRequest, "view must be current or history")
		return
	}

	regs, err := h.svc.List(r.Context(), filter, view)
	if err != nil {
		log.Printf("list registrations: %v", err)
		writeError(w, http.StatusServiceUnavailable, "failed to list registrations")
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if regs == nil {
		regs = []model.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}

// Stats handles GET /api/admin/stats
// Returns the aggregates derived from the full current collection.
func (h *RegistrationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		log.Printf("derive stats: %v", err)
		writeError(w, http.StatusServiceUnavailable, "failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// resolveResponse returns the resolved registration id together with the
// freshly recomputed aggregates, so the review view reconciles against
// store truth instead of patching locally.
type resolveResponse struct {
	ID    string      `json:"id"`
	Stats model.Stats `json:"stats"`
}

// Resolve handles POST /api/admin/registrations/{id}/resolve
// Moves a pending registration to approved or rejected.
func (h *RegistrationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.ResolveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	target, ok := model.ParseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown status: "+req.Status)
		return
	}

	stats, err := h.svc.Resolve(r.Context(), id, target)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrInvalidTarget):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "registration not found")
		case errors.Is(err, lifecycle.ErrAlreadyResolved):
			writeError(w, http.StatusConflict, "registration already resolved")
		default:
			// The displayed status is unchanged; the next refresh
			// reconciles against the store.
			log.Printf("resolve registration %s: %v", id, err)
			writeError(w, http.StatusServiceUnavailable, "failed to resolve registration")
		}
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{ID: id, Stats: stats})
}

// smsResponse carries the rendered notification text and its recipient.
type smsResponse struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SMSTemplate handles GET /api/admin/registrations/{id}/sms
// Returns the notification text the admin copies into their phone.
func (h *RegistrationHandler) SMSTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	phone, text, err := h.svc.SMS(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "registration not found")
		case errors.Is(err, notify.ErrNotResolved):
			writeError(w, http.StatusConflict, "registration not resolved yet")
		default:
			log.Printf("render sms for %s: %v", id, err)
			writeError(w, http.StatusServiceUnavailable, "failed to render sms template")
		}
		return
	}

	writeJSON(w, http.StatusOK, smsResponse{Phone: phone, Message: text})
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
