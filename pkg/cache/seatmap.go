package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SeatMapCache keeps rendered seat maps in redis for a short TTL.
// Entries are deleted whenever the ledger for that schedule changes
// (reserve, cancel, hold expiry), so reads may only be stale for at
// most the TTL. Cache failures are never fatal: callers fall through
// to the database.
type SeatMapCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewSeatMapCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *SeatMapCache {
	return &SeatMapCache{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("cache", "seatmap")),
	}
}

func seatMapKey(scheduleID uuid.UUID) string {
	return fmt.Sprintf("seatmap:%s", scheduleID.String())
}

// Get unmarshals the cached seat map into dest. Returns false on miss.
func (c *SeatMapCache) Get(ctx context.Context, scheduleID uuid.UUID, dest any) bool {
	data, err := c.client.Get(ctx, seatMapKey(scheduleID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Seat map cache read failed",
				zap.Error(err),
				zap.String("schedule_id", scheduleID.String()),
			)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn("Seat map cache entry corrupt, dropping",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		c.client.Del(ctx, seatMapKey(scheduleID))
		return false
	}

	return true
}

func (c *SeatMapCache) Set(ctx context.Context, scheduleID uuid.UUID, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("Seat map cache marshal failed", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, seatMapKey(scheduleID), data, c.ttl).Err(); err != nil {
		c.log.Warn("Seat map cache write failed",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
	}
}

// Invalidate drops the cached seat map after any ledger mutation.
func (c *SeatMapCache) Invalidate(ctx context.Context, scheduleID uuid.UUID) {
	if err := c.client.Del(ctx, seatMapKey(scheduleID)).Err(); err != nil {
		c.log.Warn("Seat map cache invalidation failed",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
	}
}
