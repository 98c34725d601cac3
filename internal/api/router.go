package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/juanwalsh/backendtest/internal/infra/metrics"
)

// Secrets holds the shared HMAC keys for the two signed surfaces.
type Secrets struct {
	Casino   string
	Provider string
}

// NewRouter registers all API endpoints. Launch and simulateRound are the
// public entry points; the wallet endpoints require the casino signature and
// the provider endpoints require the provider signature.
func NewRouter(h *Handler, secrets Secrets) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(metrics.Middleware)

	r.Get("/healthz", h.Liveness)
	r.Get("/health", h.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/casino", func(r chi.Router) {
		r.Post("/launchGame", h.LaunchGame)
		r.Post("/simulateRound", h.SimulateRound)

		r.Group(func(r chi.Router) {
			r.Use(verifySignature("X-Casino-Signature", secrets.Casino))

			r.Post("/getBalance", h.GetBalance)
			r.Post("/debit", h.Debit)
			r.Post("/credit", h.Credit)
			r.Post("/rollback", h.Rollback)
		})
	})

	r.Route("/provider", func(r chi.Router) {
		r.Use(verifySignature("X-Provider-Signature", secrets.Provider))

		r.Post("/launch", h.ProviderLaunch)
		r.Post("/simulate", h.ProviderSimulate)
	})

	return r
}
