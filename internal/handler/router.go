package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the full route tree with the global middleware stack.
func NewRouter(h *RegistrationHandler, adminToken string) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger)                  // structured access log
	r.Use(CORS)                    // permissive CORS for the front end

	r.Get("/health", HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/event", h.GetEvent)
		r.Post("/registrations", h.Submit)
		r.Get("/registrations/check", h.Check)

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuth(adminToken))
			r.Get("/registrations", h.ListRegistrations)
			r.Post("/registrations/{id}/resolve", h.Resolve)
			r.Get("/registrations/{id}/sms", h.SMSTemplate)
			r.Get("/stats", h.Stats)
		})
	})

	return r
}
