package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/juanwalsh/backendtest/internal/infra/metrics"
	"github.com/juanwalsh/backendtest/internal/repos/sessions"
	"github.com/juanwalsh/backendtest/internal/services/audit"
	"github.com/juanwalsh/backendtest/internal/services/wallet"
	"github.com/juanwalsh/backendtest/pkg/money"
)

type walletReply struct {
	Success bool `json:"success"`
	*wallet.Result
}

// LaunchGame handles POST /casino/launchGame: create a session, announce it
// to the provider, remember the provider's session id.
func (h *Handler) LaunchGame(w http.ResponseWriter, r *http.Request) {
	var req launchGameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	requestID := r.Header.Get(requestIDHeader)

	launched, err := h.sessions.Launch(r.Context(), req.UserID, req.GameID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	slog.Info("session created, calling provider",
		"userId", req.UserID, "gameId", req.GameID, "token", launched.Token, "requestId", requestID)

	providerReply, err := h.provider.Launch(r.Context(), requestID, launched.Token, launched.UserID, launched.ProviderGameID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if providerReply.ProviderSessionID != "" {
		err = h.sessions.SetProviderSession(r.Context(), launched.Token, providerReply.ProviderSessionID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"session": map[string]any{"token": launched.Token, "gameId": launched.GameID},
		"provider": providerReply,
	})
}

// SimulateRound handles POST /casino/simulateRound: launch a session and
// hand it to the provider's simulator in one call.
func (h *Handler) SimulateRound(w http.ResponseWriter, r *http.Request) {
	var req launchGameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	requestID := r.Header.Get(requestIDHeader)

	launched, err := h.sessions.Launch(r.Context(), req.UserID, req.GameID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	providerReply, err := h.provider.Launch(r.Context(), requestID, launched.Token, launched.UserID, launched.ProviderGameID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if providerReply.ProviderSessionID != "" {
		err = h.sessions.SetProviderSession(r.Context(), launched.Token, providerReply.ProviderSessionID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	simReply, err := h.provider.Simulate(r.Context(), requestID, launched.Token)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	slog.Info("simulation complete", "token", launched.Token, "finalBalance", simReply.FinalBalance)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"token":      launched.Token,
		"simulation": simReply,
	})
}

// GetBalance handles POST /casino/getBalance, fronted by the read cache.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	var req balanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sess, err := h.sessions.Validate(r.Context(), req.Token)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	info, hit := h.cache.Get(r.Context(), sess.UserID)
	if !hit {
		info, err = h.wallet.Balance(r.Context(), sess.UserID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		h.cache.Set(r.Context(), info)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"userId":            info.UserID,
		"playableBalance":   info.PlayableBalance,
		"redeemableBalance": info.RedeemableBalance,
		"currencyCode":      info.CurrencyCode,
	})
}

// Debit handles POST /casino/debit.
func (h *Handler) Debit(w http.ResponseWriter, r *http.Request) {
	h.walletOp(w, r, "debit", func(ctx context.Context, sess *sessions.Session, amount money.Amount, req *rollbackRequest) (*wallet.Result, error) {
		return h.wallet.Debit(ctx, sess.UserID, amount, req.TransactionID, &sess.ID)
	})
}

// Credit handles POST /casino/credit.
func (h *Handler) Credit(w http.ResponseWriter, r *http.Request) {
	h.walletOp(w, r, "credit", func(ctx context.Context, sess *sessions.Session, amount money.Amount, req *rollbackRequest) (*wallet.Result, error) {
		return h.wallet.Credit(ctx, sess.UserID, amount, req.TransactionID, &sess.ID)
	})
}

// Rollback handles POST /casino/rollback.
func (h *Handler) Rollback(w http.ResponseWriter, r *http.Request) {
	h.walletOp(w, r, "rollback", func(ctx context.Context, sess *sessions.Session, amount money.Amount, req *rollbackRequest) (*wallet.Result, error) {
		return h.wallet.Rollback(ctx, sess.UserID, amount, req.TransactionID, req.OriginalTransactionID, &sess.ID)
	})
}

// walletOp is the shared handler shape for the three ledger operations:
// validate, resolve session, run the engine, invalidate the balance cache,
// publish the audit event and count the outcome.
func (h *Handler) walletOp(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	run func(ctx context.Context, sess *sessions.Session, amount money.Amount, req *rollbackRequest) (*wallet.Result, error),
) {
	var req rollbackRequest

	if op == "rollback" {
		if !decodeAndValidate(w, r, &req) {
			return
		}
	} else {
		if !decodeAndValidate(w, r, &req.walletTxRequest) {
			return
		}
	}

	requestID := r.Header.Get(requestIDHeader)

	sess, err := h.sessions.Validate(r.Context(), req.Token)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	slog.Info("processing wallet operation",
		"op", op, "transactionId", req.TransactionID, "amount", amount,
		"userId", sess.UserID, "requestId", requestID)

	result, err := run(r.Context(), sess, amount, &req)
	if err != nil {
		metrics.WalletOperations.WithLabelValues(op, outcomeOf(nil, err)).Inc()
		writeDomainError(w, r, err)

		return
	}

	metrics.WalletOperations.WithLabelValues(op, outcomeOf(result, nil)).Inc()

	if !result.Replayed {
		h.cache.Invalidate(r.Context(), sess.UserID)
		h.audit.Publish(r.Context(), audit.Event{
			Type:          string(result.TransactionType),
			UserID:        sess.UserID,
			Amount:        result.Amount,
			TransactionID: result.ExternalTransactionID,
			RequestID:     requestID,
		})
	}

	writeJSON(w, http.StatusOK, walletReply{Success: true, Result: result})
}

func outcomeOf(result *wallet.Result, err error) string {
	switch {
	case err == nil && result.Replayed:
		return "replayed"
	case err == nil && result.Status == wallet.StatusTombstone:
		return "tombstone"
	case err == nil:
		return "completed"
	case errors.Is(err, wallet.ErrInsufficientBalance):
		return "insufficient_balance"
	default:
		return "error"
	}
}
