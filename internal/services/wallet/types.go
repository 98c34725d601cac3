package wallet

import (
	"errors"

	"github.com/juanwalsh/backendtest/internal/repos/transactions"
	"github.com/juanwalsh/backendtest/pkg/money"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// Status tags a Result. COMPLETED means the balance moved; TOMBSTONE means a
// rollback targeted a bet this ledger never journaled, so a zero-amount
// marker was recorded and the balance left alone.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusTombstone Status = "TOMBSTONE"
)

// Result is the record returned by every ledger operation. The exact JSON
// serialization of this struct is frozen into the journal row and replayed
// byte-for-byte on duplicate submissions.
type Result struct {
	TransactionID         string            `json:"transactionId"`
	ExternalTransactionID string            `json:"externalTransactionId"`
	TransactionType       transactions.Type `json:"transactionType"`
	Amount                money.Amount      `json:"amount"`
	BalanceAfter          money.Amount      `json:"balanceAfter"`
	Status                Status            `json:"status"`

	// Replayed marks results served from the journal instead of a fresh
	// unit of work. Not part of the frozen payload.
	Replayed bool `json:"-"`
}

// BalanceInfo is the unlocked read model for balance queries.
type BalanceInfo struct {
	UserID            int64        `json:"userId"`
	PlayableBalance   money.Amount `json:"playableBalance"`
	RedeemableBalance money.Amount `json:"redeemableBalance"`
	CurrencyCode      string       `json:"currencyCode"`
}
