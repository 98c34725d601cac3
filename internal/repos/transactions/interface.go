package transactions

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/juanwalsh/backendtest/pkg/money"
)

var (
	// ErrDuplicateTransaction is returned by Append when the external
	// transaction id is already journaled. The uniqueness constraint is
	// enforced by the database at commit time, so this also catches two
	// concurrent calls that both passed the idempotency probe.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	ErrTransactionNotFound = errors.New("transaction not found")
)

// Type classifies a journal entry. Direction is implied by the type; the
// stored amount is always non-negative.
type Type string

const (
	TypeBet      Type = "BET"
	TypeWin      Type = "WIN"
	TypeRollback Type = "ROLLBACK"
)

// Transaction is an immutable journal row. Once written it is never updated
// or deleted; replays of the same external id read it back verbatim.
type Transaction struct {
	ID                int64
	WalletID          int64
	SessionID         sql.NullInt64
	Type              Type
	Amount            money.Amount
	ExternalID        string
	RelatedExternalID sql.NullString
	BalanceAfter      money.Amount
	ResponseCache     sql.NullString
	CreatedAt         time.Time
}

// Entry is the payload for a new journal row.
type Entry struct {
	WalletID          int64
	SessionID         *int64
	Type              Type
	Amount            money.Amount
	ExternalID        string
	RelatedExternalID *string
	BalanceAfter      money.Amount
}

type Transactions interface {
	// FindByKey is the idempotency probe. It never takes wallet locks.
	FindByKey(ctx context.Context, externalID string) (*Transaction, error)

	// Append inserts a journal row inside the caller's transaction. A
	// unique violation on external_transaction_id maps to
	// ErrDuplicateTransaction.
	Append(tx *sql.Tx, entry Entry) (id int64, createdAt time.Time, err error)

	// FreezeResponse stores the serialized operation result on a row just
	// appended in the same transaction. The row's id is only known after
	// Append, and replays must return the response byte-for-byte, so the
	// freeze is a second statement inside the same unit of work. After
	// commit the row is never touched again.
	FreezeResponse(tx *sql.Tx, id int64, response string) error
}
