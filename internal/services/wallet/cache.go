package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// BalanceCache fronts balance reads with a short-TTL Redis cache. It sits
// strictly outside the ledger's consistency boundary: every cache failure
// degrades to a database read, and every committed mutation invalidates the
// key. A nil client disables caching entirely.
type BalanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewBalanceCache(rdb *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{rdb: rdb, ttl: ttl}
}

func balanceKey(userID int64) string {
	return fmt.Sprintf("balance:%d", userID)
}

// Get returns the cached balance and whether it was present.
func (c *BalanceCache) Get(ctx context.Context, userID int64) (*BalanceInfo, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, balanceKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Error("balance cache get failed", "userId", userID, "error", err)
		}

		return nil, false
	}

	var info BalanceInfo

	err = json.Unmarshal([]byte(raw), &info)
	if err != nil {
		slog.Error("balance cache entry corrupt", "userId", userID, "error", err)

		return nil, false
	}

	return &info, true
}

func (c *BalanceCache) Set(ctx context.Context, info *BalanceInfo) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(info)
	if err != nil {
		return
	}

	err = c.rdb.Set(ctx, balanceKey(info.UserID), raw, c.ttl).Err()
	if err != nil {
		slog.Error("balance cache set failed", "userId", info.UserID, "error", err)
	}
}

// Invalidate drops the cached balance after a committed mutation.
func (c *BalanceCache) Invalidate(ctx context.Context, userID int64) {
	if c == nil || c.rdb == nil {
		return
	}

	err := c.rdb.Del(ctx, balanceKey(userID)).Err()
	if err != nil {
		slog.Error("balance cache invalidate failed", "userId", userID, "error", err)
	}
}
