package api

import (
	"log/slog"
	"net/http"
)

// ProviderLaunch handles POST /provider/launch, called by the casino after
// it creates a session.
func (h *Handler) ProviderLaunch(w http.ResponseWriter, r *http.Request) {
	var req providerLaunchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.rounds.Launch(r.Context(), req.Token, req.UserID, req.GameID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"providerSessionId": result.ProviderSessionID,
		"playerId":          result.PlayerID,
		"gameId":            result.GameID,
	})
}

// ProviderSimulate handles POST /provider/simulate: run the fixed round
// against the casino wallet and return the audit trail.
func (h *Handler) ProviderSimulate(w http.ResponseWriter, r *http.Request) {
	var req providerSimulateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	requestID := r.Header.Get(requestIDHeader)

	slog.Info("provider starting round simulation", "token", req.Token, "requestId", requestID)

	sim, err := h.rounds.Simulate(r.Context(), req.Token, requestID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"roundId":      sim.RoundID,
		"steps":        sim.Steps,
		"finalBalance": sim.FinalBalance,
	})
}
