package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"communityboard/internal/app"
)

// RankingsCache keeps the computed weekly rankings payload in redis for a
// short TTL so the public rankings route does not recompute the
// aggregation on every hit.
type RankingsCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewRankingsCache(client *redisv9.Client, ttl time.Duration) *RankingsCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &RankingsCache{client: client, ttl: ttl}
}

func (c *RankingsCache) Get(ctx context.Context, weekKey string) (*app.WeeklyRankings, error) {
	raw, err := c.client.Get(ctx, c.key(weekKey)).Result()
	if err == redisv9.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get rankings failed: %w", err)
	}

	var rankings app.WeeklyRankings
	if err := json.Unmarshal([]byte(raw), &rankings); err != nil {
		return nil, fmt.Errorf("unmarshal cached rankings failed: %w", err)
	}
	return &rankings, nil
}

func (c *RankingsCache) Set(ctx context.Context, weekKey string, rankings *app.WeeklyRankings) error {
	payload, err := json.Marshal(rankings)
	if err != nil {
		return fmt.Errorf("marshal rankings cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(weekKey), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set rankings failed: %w", err)
	}
	return nil
}

func (c *RankingsCache) key(weekKey string) string {
	return fmt.Sprintf("login:rankings:week:%s", weekKey)
}
