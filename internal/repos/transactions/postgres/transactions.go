package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/juanwalsh/backendtest/internal/repos/transactions"
)

const uniqueViolation = "23505"

var _ transactions.Transactions = (*transactionsRepo)(nil)

type transactionsRepo struct{ db *sql.DB }

func New(db *sql.DB) *transactionsRepo {
	return &transactionsRepo{db: db}
}

func (r *transactionsRepo) FindByKey(ctx context.Context, externalID string) (*transactions.Transaction, error) {
	var t transactions.Transaction

	err := r.db.QueryRowContext(ctx, `
		SELECT id, wallet_id, session_id, transaction_type, amount,
		       external_transaction_id, related_external_transaction_id,
		       balance_after, response_cache, created_at
		FROM transactions
		WHERE external_transaction_id = $1
	`, externalID).Scan(
		&t.ID, &t.WalletID, &t.SessionID, &t.Type, &t.Amount,
		&t.ExternalID, &t.RelatedExternalID,
		&t.BalanceAfter, &t.ResponseCache, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transactions.ErrTransactionNotFound
		}

		return nil, fmt.Errorf("find transaction: %w", err)
	}

	return &t, nil
}

func (r *transactionsRepo) Append(tx *sql.Tx, entry transactions.Entry) (int64, time.Time, error) {
	var (
		id        int64
		createdAt time.Time
	)

	err := tx.QueryRow(`
		INSERT INTO transactions (
			wallet_id, session_id, transaction_type, amount,
			external_transaction_id, related_external_transaction_id,
			balance_after
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`,
		entry.WalletID, entry.SessionID, entry.Type, entry.Amount,
		entry.ExternalID, entry.RelatedExternalID,
		entry.BalanceAfter,
	).Scan(&id, &createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, time.Time{}, transactions.ErrDuplicateTransaction
		}

		return 0, time.Time{}, fmt.Errorf("append transaction: %w", err)
	}

	return id, createdAt, nil
}

func (r *transactionsRepo) FreezeResponse(tx *sql.Tx, id int64, response string) error {
	_, err := tx.Exec(`
		UPDATE transactions
		SET response_cache = $2
		WHERE id = $1
	`, id, response)
	if err != nil {
		return fmt.Errorf("freeze response: %w", err)
	}

	return nil
}
