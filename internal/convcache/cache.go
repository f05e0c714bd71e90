// internal/convcache/cache.go
package convcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"phoneshop-bot/internal/models"
)

const keyPrefix = "conv:"

// State is the last analysis recorded for one sender. Working memory
// only: the pipeline never reads it back, it exists for the workflow
// engine and for support staff looking at a conversation.
type State struct {
	Message  string          `json:"message"`
	Analysis models.Analysis `json:"analysis"`
}

// Cache stores per-sender conversation state in Redis with a TTL, so
// abandoned conversations expire on their own.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Put records the latest analysis for a sender, refreshing the TTL.
func (c *Cache) Put(ctx context.Context, sender string, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal conversation state: %w", err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+sender, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache conversation state: %w", err)
	}
	return nil
}

// Get returns the last recorded state for a sender, or nil when none
// exists (or it expired).
func (c *Cache) Get(ctx context.Context, sender string) (*State, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+sender).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read conversation state: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("unmarshal conversation state: %w", err)
	}
	return &state, nil
}
