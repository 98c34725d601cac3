package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/require"

	"github.com/juanwalsh/backendtest/internal/services/audit"
	"github.com/juanwalsh/backendtest/pkg/money"
)

func TestPublishPushesAndTrims(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	pub := audit.NewPublisher(rdb)

	event := audit.Event{
		Type:          "BET",
		UserID:        1,
		Amount:        money.MustParse("10.00"),
		TransactionID: "tx_bet_1",
		RequestID:     "req-1",
		At:            time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	mock.ExpectTxPipeline()
	mock.ExpectRPush("transaction_audit", raw).SetVal(1)
	mock.ExpectLTrim("transaction_audit", -100_000, -1).SetVal("OK")
	mock.ExpectTxPipelineExec()

	pub.Publish(context.Background(), event)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishSwallowsRedisErrors(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	pub := audit.NewPublisher(rdb)

	mock.ExpectTxPipeline()

	// No RPush expectation: the pipeline exec fails, Publish must not panic.
	pub.Publish(context.Background(), audit.Event{Type: "WIN", UserID: 2, TransactionID: "tx_win_1"})
}

func TestNilPublisherIsSafe(t *testing.T) {
	var pub *audit.Publisher

	pub.Publish(context.Background(), audit.Event{Type: "BET"})

	audit.NewPublisher(nil).Publish(context.Background(), audit.Event{Type: "BET"})
}
