// Package audit publishes wallet mutation events for offline consumers.
// Delivery is best effort: the ledger's correctness never depends on the
// audit trail, so publish failures are logged and swallowed.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/juanwalsh/backendtest/pkg/money"
)

const (
	listKey = "transaction_audit"

	// maxTrail caps the list so an absent consumer can't grow it without
	// bound.
	maxTrail = 100_000
)

// Event is one audited wallet mutation.
type Event struct {
	Type          string       `json:"type"`
	UserID        int64        `json:"userId"`
	Amount        money.Amount `json:"amount"`
	TransactionID string       `json:"transactionId"`
	RequestID     string       `json:"requestId,omitempty"`
	At            time.Time    `json:"at"`
}

// Publisher pushes events onto a capped Redis list. A nil client disables
// publishing.
type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// Publish fires the event and never returns an error to the caller.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if p == nil || p.rdb == nil {
		return
	}

	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	raw, err := json.Marshal(event)
	if err != nil {
		slog.Error("audit event marshal failed", "error", err)

		return
	}

	pipe := p.rdb.TxPipeline()
	pipe.RPush(ctx, listKey, raw)
	pipe.LTrim(ctx, listKey, -maxTrail, -1)

	_, err = pipe.Exec(ctx)
	if err != nil {
		slog.Error("audit publish failed", "type", event.Type, "transactionId", event.TransactionID, "error", err)
	}
}
