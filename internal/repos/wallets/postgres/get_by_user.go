package wallets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/juanwalsh/backendtest/internal/repos/wallets"
)

func (r *walletsRepo) GetByUserID(ctx context.Context, userID int64) (*wallets.Wallet, error) {
	var w wallets.Wallet

	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, currency_code, playable_balance, redeemable_balance, updated_at
		FROM wallets
		WHERE user_id = $1
	`, userID).Scan(&w.ID, &w.UserID, &w.CurrencyCode, &w.PlayableBalance, &w.RedeemableBalance, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wallets.ErrWalletNotFound
		}

		return nil, fmt.Errorf("get wallet: %w", err)
	}

	return &w, nil
}
