// Package wallet implements the ledger engine: debit, credit and rollback
// over a player's playable balance, idempotent on an externally supplied
// transaction id and serialized per wallet by a pessimistic row lock.
package wallet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/juanwalsh/backendtest/internal/infra/pgutils"
	"github.com/juanwalsh/backendtest/internal/repos/transactions"
	pgtransactions "github.com/juanwalsh/backendtest/internal/repos/transactions/postgres"
	"github.com/juanwalsh/backendtest/internal/repos/wallets"
	pgwallets "github.com/juanwalsh/backendtest/internal/repos/wallets/postgres"
	"github.com/juanwalsh/backendtest/pkg/money"
)

type Service struct {
	db      *sql.DB
	wallets wallets.Wallets
	txns    transactions.Transactions
}

func New(db *sql.DB) *Service {
	return &Service{
		db:      db,
		wallets: pgwallets.New(db),
		txns:    pgtransactions.New(db),
	}
}

// Debit takes amount off the playable balance and journals a BET entry.
// Fails with ErrInsufficientBalance when the locked balance cannot cover the
// amount; nothing is journaled in that case, so a retry with the same key is
// re-evaluated against the then-current balance.
func (s *Service) Debit(ctx context.Context, userID int64, amount money.Amount, externalTxID string, sessionID *int64) (*Result, error) {
	return s.process(ctx, userID, amount, transactions.TypeBet, externalTxID, nil, sessionID)
}

// Credit adds amount to the playable balance and journals a WIN entry.
func (s *Service) Credit(ctx context.Context, userID int64, amount money.Amount, externalTxID string, sessionID *int64) (*Result, error) {
	return s.process(ctx, userID, amount, transactions.TypeWin, externalTxID, nil, sessionID)
}

// Rollback reverses a previously journaled bet. If the original transaction
// id was never journaled on this side, no funds move: a zero-amount
// TOMBSTONE entry is journaled under the rollback's own id, which keeps
// retries of the rollback idempotent without ever crediting a bet that may
// not exist.
func (s *Service) Rollback(ctx context.Context, userID int64, amount money.Amount, externalTxID, originalTxID string, sessionID *int64) (*Result, error) {
	replayed, err := s.replay(ctx, externalTxID)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return replayed, nil
	}

	_, err = s.txns.FindByKey(ctx, originalTxID)
	switch {
	case err == nil:
		// The own-key probe above already missed; go straight to the
		// unit of work.
		return s.mutate(ctx, userID, amount, transactions.TypeRollback, externalTxID, &originalTxID, sessionID)
	case errors.Is(err, transactions.ErrTransactionNotFound):
		return s.runGuarded(ctx, externalTxID, func(tx *sql.Tx) (*Result, error) {
			return s.writeTombstone(tx, userID, externalTxID, originalTxID, sessionID)
		})
	default:
		return nil, err
	}
}

// Balance is an unlocked read of the wallet.
func (s *Service) Balance(ctx context.Context, userID int64) (*BalanceInfo, error) {
	w, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &BalanceInfo{
		UserID:            w.UserID,
		PlayableBalance:   w.PlayableBalance,
		RedeemableBalance: w.RedeemableBalance,
		CurrencyCode:      w.CurrencyCode,
	}, nil
}

// process is the shared shape of Debit and Credit: idempotency probe, then
// one unit of work.
func (s *Service) process(ctx context.Context, userID int64, amount money.Amount, txType transactions.Type, externalTxID string, relatedTxID *string, sessionID *int64) (*Result, error) {
	replayed, err := s.replay(ctx, externalTxID)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return replayed, nil
	}

	return s.mutate(ctx, userID, amount, txType, externalTxID, relatedTxID, sessionID)
}

// mutate is one guarded unit of work: row lock, arithmetic, balance write,
// journal append, response freeze. Callers must have probed externalTxID
// already.
func (s *Service) mutate(ctx context.Context, userID int64, amount money.Amount, txType transactions.Type, externalTxID string, relatedTxID *string, sessionID *int64) (*Result, error) {
	return s.runGuarded(ctx, externalTxID, func(tx *sql.Tx) (*Result, error) {
		w, err := s.wallets.LockAndGet(tx, userID)
		if err != nil {
			return nil, err
		}

		var newBalance money.Amount

		switch txType {
		case transactions.TypeBet:
			if w.PlayableBalance.LessThan(amount) {
				return nil, ErrInsufficientBalance
			}

			newBalance = w.PlayableBalance.Sub(amount)
		case transactions.TypeWin, transactions.TypeRollback:
			newBalance = w.PlayableBalance.Add(amount)
		}

		err = s.wallets.UpdateBalance(tx, w.ID, newBalance)
		if err != nil {
			return nil, err
		}

		return s.journal(tx, transactions.Entry{
			WalletID:          w.ID,
			SessionID:         sessionID,
			Type:              txType,
			Amount:            amount,
			ExternalID:        externalTxID,
			RelatedExternalID: relatedTxID,
			BalanceAfter:      newBalance,
		}, StatusCompleted)
	})
}

// writeTombstone locks the wallet only to snapshot the current balance for
// the frozen response; the balance itself is left untouched.
func (s *Service) writeTombstone(tx *sql.Tx, userID int64, externalTxID, originalTxID string, sessionID *int64) (*Result, error) {
	w, err := s.wallets.LockAndGet(tx, userID)
	if err != nil {
		return nil, err
	}

	return s.journal(tx, transactions.Entry{
		WalletID:          w.ID,
		SessionID:         sessionID,
		Type:              transactions.TypeRollback,
		Amount:            money.Zero(),
		ExternalID:        externalTxID,
		RelatedExternalID: &originalTxID,
		BalanceAfter:      w.PlayableBalance,
	}, StatusTombstone)
}

// journal appends the entry and freezes the complete result JSON onto the
// new row, all inside the caller's transaction.
func (s *Service) journal(tx *sql.Tx, entry transactions.Entry, status Status) (*Result, error) {
	id, _, err := s.txns.Append(tx, entry)
	if err != nil {
		return nil, err
	}

	result := &Result{
		TransactionID:         strconv.FormatInt(id, 10),
		ExternalTransactionID: entry.ExternalID,
		TransactionType:       entry.Type,
		Amount:                entry.Amount,
		BalanceAfter:          entry.BalanceAfter,
		Status:                status,
	}

	frozen, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	err = s.txns.FreezeResponse(tx, id, string(frozen))
	if err != nil {
		return nil, err
	}

	return result, nil
}

// runGuarded executes one unit of work and handles the duplicate-key race:
// two calls with the same external id can both miss the idempotency probe,
// but only one append commits. The loser's transaction is rolled back whole
// (its balance change included) and the winner's frozen result is returned
// from a mandatory re-probe.
func (s *Service) runGuarded(ctx context.Context, externalTxID string, fn func(tx *sql.Tx) (*Result, error)) (*Result, error) {
	var result *Result

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var ferr error
		result, ferr = fn(tx)

		return ferr
	})
	if err != nil {
		if errors.Is(err, transactions.ErrDuplicateTransaction) {
			slog.Warn("lost duplicate-key race, replaying winner", "externalTransactionId", externalTxID)

			replayed, rerr := s.replay(ctx, externalTxID)
			if rerr != nil {
				return nil, rerr
			}
			if replayed != nil {
				return replayed, nil
			}
		}

		return nil, err
	}

	return result, nil
}

// replay returns the frozen result for an already-journaled external id, or
// nil if the id has never been seen.
func (s *Service) replay(ctx context.Context, externalTxID string) (*Result, error) {
	t, err := s.txns.FindByKey(ctx, externalTxID)
	if err != nil {
		if errors.Is(err, transactions.ErrTransactionNotFound) {
			return nil, nil
		}

		return nil, err
	}

	result := decodeFrozen(t)
	result.Replayed = true

	return result, nil
}

// decodeFrozen prefers the frozen response verbatim; rows without one (from
// before response freezing existed) are reconstructed from their columns.
func decodeFrozen(t *transactions.Transaction) *Result {
	if t.ResponseCache.Valid && t.ResponseCache.String != "" {
		var r Result

		err := json.Unmarshal([]byte(t.ResponseCache.String), &r)
		if err == nil {
			return &r
		}

		slog.Error("corrupt frozen response, rebuilding from row",
			"transactionId", t.ID, "externalTransactionId", t.ExternalID)
	}

	status := StatusCompleted
	if t.Type == transactions.TypeRollback && t.Amount.IsZero() {
		status = StatusTombstone
	}

	return &Result{
		TransactionID:         strconv.FormatInt(t.ID, 10),
		ExternalTransactionID: t.ExternalID,
		TransactionType:       t.Type,
		Amount:                t.Amount,
		BalanceAfter:          t.BalanceAfter,
		Status:                status,
	}
}
