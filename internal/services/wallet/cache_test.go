package wallet_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanwalsh/backendtest/internal/services/wallet"
	"github.com/juanwalsh/backendtest/pkg/money"
)

func testBalance() *wallet.BalanceInfo {
	return &wallet.BalanceInfo{
		UserID:            1,
		PlayableBalance:   money.MustParse("1000.00"),
		RedeemableBalance: money.Zero(),
		CurrencyCode:      "BRL",
	}
}

func TestBalanceCacheRoundTrip(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := wallet.NewBalanceCache(rdb, time.Minute)

	info := testBalance()
	raw, err := json.Marshal(info)
	require.NoError(t, err)

	mock.ExpectSet("balance:1", raw, time.Minute).SetVal("OK")
	cache.Set(context.Background(), info)

	mock.ExpectGet("balance:1").SetVal(string(raw))

	got, hit := cache.Get(context.Background(), 1)
	require.True(t, hit)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, "1000.00", got.PlayableBalance.String())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceCacheMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := wallet.NewBalanceCache(rdb, time.Minute)

	mock.ExpectGet("balance:1").RedisNil()

	_, hit := cache.Get(context.Background(), 1)
	assert.False(t, hit)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceCacheErrorDegradesToMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := wallet.NewBalanceCache(rdb, time.Minute)

	mock.ExpectGet("balance:1").SetErr(errors.New("connection refused"))

	_, hit := cache.Get(context.Background(), 1)
	assert.False(t, hit)
}

func TestBalanceCacheCorruptEntryDegradesToMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := wallet.NewBalanceCache(rdb, time.Minute)

	mock.ExpectGet("balance:1").SetVal("{not json")

	_, hit := cache.Get(context.Background(), 1)
	assert.False(t, hit)
}

func TestBalanceCacheInvalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := wallet.NewBalanceCache(rdb, time.Minute)

	mock.ExpectDel("balance:1").SetVal(1)
	cache.Invalidate(context.Background(), 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNilCacheIsSafe(t *testing.T) {
	var cache *wallet.BalanceCache

	_, hit := cache.Get(context.Background(), 1)
	assert.False(t, hit)

	cache.Set(context.Background(), testBalance())
	cache.Invalidate(context.Background(), 1)

	disabled := wallet.NewBalanceCache((*redis.Client)(nil), time.Minute)
	_, hit = disabled.Get(context.Background(), 1)
	assert.False(t, hit)
}
