package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/juanwalsh/backendtest/internal/infra/sigclient"
	"github.com/juanwalsh/backendtest/internal/repos/games"
	"github.com/juanwalsh/backendtest/internal/repos/provider"
	"github.com/juanwalsh/backendtest/internal/repos/sessions"
	"github.com/juanwalsh/backendtest/internal/repos/wallets"
	"github.com/juanwalsh/backendtest/internal/services/wallet"
	"github.com/juanwalsh/backendtest/pkg/money"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}

// writeDomainError maps service errors to the wire taxonomy. Anything
// unmapped is an internal (retryable) failure: by then the unit of work has
// been fully rolled back, so the caller may safely retry with the same
// transaction id.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *sigclient.UpstreamError

	switch {
	case errors.Is(err, money.ErrInvalidAmount):
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "amount must be a positive decimal with at most 2 fractional digits")
	case errors.Is(err, wallet.ErrInsufficientBalance):
		writeErrorCode(w, http.StatusBadRequest, "INSUFFICIENT_BALANCE", "Insufficient balance for this operation")
	case errors.Is(err, sessions.ErrSessionNotFound), errors.Is(err, provider.ErrCustomerNotFound):
		writeErrorCode(w, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found or expired")
	case errors.Is(err, wallets.ErrWalletNotFound):
		writeErrorCode(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, games.ErrGameNotFound), errors.Is(err, provider.ErrGameNotFound):
		writeErrorCode(w, http.StatusNotFound, "GAME_NOT_FOUND", "Game not found")
	case errors.As(err, &upstream):
		slog.Error("inter-service call failed", "status", upstream.StatusCode, "code", upstream.Code, "path", r.URL.Path)
		writeErrorCode(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Upstream service unavailable")
	default:
		slog.Error("unhandled error", "path", r.URL.Path, "error", err)
		writeErrorCode(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}
