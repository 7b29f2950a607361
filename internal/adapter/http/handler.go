package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"billboard-escrow/internal/core/port"
)

// Verifier authenticates a bearer token and returns the caller's account
// address.
type Verifier interface {
	Verify(tokenString string) (string, error)
}

// Handler is the inbound HTTP adapter. It holds the escrow usecase, the
// token verifier for the auth middleware and a logger, and registers every
// lifecycle action on a chi.Router.
type Handler struct {
	svc      port.EscrowUseCase
	verifier Verifier
	logger   *slog.Logger
	router   chi.Router
}

// NewHandler creates a handler with all routes configured. Lifecycle actions
// require a valid bearer token; the read endpoints and /metrics do not.
func NewHandler(svc port.EscrowUseCase, verifier Verifier, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, verifier: verifier, logger: logger}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/campaigns", h.handleCreateCampaign)
			r.Post("/campaigns/{id}/accept", h.handleCreatorAccept)
			r.Post("/campaigns/{id}/reject", h.handleCreatorReject)
			r.Post("/campaigns/{id}/verifying", h.handleSetVerifying)
			r.Post("/campaigns/{id}/live", h.handleSetLive)
			r.Post("/campaigns/{id}/expired", h.handleSetExpired)
			r.Post("/campaigns/{id}/cancel", h.handleHardCancel)
			r.Post("/campaigns/{id}/claim", h.handleCreatorClaim)
		})
		r.Get("/campaigns/{id}", h.handleGetCampaign)
		r.Get("/campaigns/{id}/events", h.handleListEvents)
	})
	r.Handle("/metrics", promhttp.Handler())

	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
