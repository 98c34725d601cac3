package wallets

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/juanwalsh/backendtest/pkg/money"
)

var ErrWalletNotFound = errors.New("wallet not found")

// Wallet is one player's wallet row. Only the playable balance is ever
// mutated by the ledger.
type Wallet struct {
	ID                int64
	UserID            int64
	CurrencyCode      string
	PlayableBalance   money.Amount
	RedeemableBalance money.Amount
	UpdatedAt         time.Time
}

type Wallets interface {
	// GetByUserID is an unlocked read for balance queries.
	GetByUserID(ctx context.Context, userID int64) (*Wallet, error)

	// LockAndGet acquires the wallet's row lock (FOR UPDATE) for the
	// duration of the enclosing transaction and returns the authoritative
	// state. Blocks while another operation on the same wallet is in
	// flight.
	LockAndGet(tx *sql.Tx, userID int64) (*Wallet, error)

	// UpdateBalance writes the new playable balance. Must run inside the
	// same transaction as LockAndGet.
	UpdateBalance(tx *sql.Tx, walletID int64, newPlayable money.Amount) error
}
