package wallets

import (
	"database/sql"
	"fmt"

	"github.com/juanwalsh/backendtest/internal/repos/wallets"
	"github.com/juanwalsh/backendtest/pkg/money"
)

func (r *walletsRepo) UpdateBalance(tx *sql.Tx, walletID int64, newPlayable money.Amount) error {
	res, err := tx.Exec(`
		UPDATE wallets
		SET playable_balance = $2, updated_at = NOW()
		WHERE id = $1
	`, walletID, newPlayable)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return wallets.ErrWalletNotFound
	}

	return nil
}
