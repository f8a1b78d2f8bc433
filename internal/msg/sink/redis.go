package sink

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"customer-relay/internal/model"
)

const (
	DefaultRedisLastKey     = "customers:last"
	DefaultRedisObservedKey = "customers:observed"
)

// RedisSink keeps the last observed name per customer id and a running
// count of observations.
type RedisSink struct {
	rdb         goredis.Cmdable
	lastKey     string
	observedKey string
}

func NewRedisSink(rdb goredis.Cmdable, keyPrefix string) *RedisSink {
	lastKey, observedKey := DefaultRedisLastKey, DefaultRedisObservedKey
	if keyPrefix != "" {
		lastKey = keyPrefix + ":last"
		observedKey = keyPrefix + ":observed"
	}

	return &RedisSink{
		rdb:         rdb,
		lastKey:     lastKey,
		observedKey: observedKey,
	}
}

func (s *RedisSink) Name() string {
	return "redis"
}

func (s *RedisSink) Write(ctx context.Context, msg model.Message) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.lastKey, strconv.Itoa(msg.Payload.ID), msg.Payload.Name)
	pipe.Incr(ctx, s.observedKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to exec redis pipeline: %w", err)
	}

	return nil
}
