// Package cache holds the optional Redis read-through cache for challenge leaderboards.
// A nil *LeaderboardCache is valid and behaves as an always-empty cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"studyHubAPI/internal/challenge"
)

// ErrMiss is returned by Get when nothing is cached for the challenge.
var ErrMiss = errors.New("cache: key not found")

const (
	keyPrefix = "studyhub:leaderboard:"
	genPrefix = "studyhub:leaderboard-gen:"
)

type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect parses a redis:// URL and pings the server. An empty URL disables caching
// and returns a nil cache.
func Connect(ctx context.Context, url string, ttl time.Duration) (*LeaderboardCache, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return New(client, ttl), nil
}

func New(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

func Key(challengeID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, challengeID)
}

func genKey(challengeID int64) string {
	return fmt.Sprintf("%s%d", genPrefix, challengeID)
}

// Generation returns the challenge's invalidation counter. Read it before loading the
// board from the database and hand it back to Set.
func (c *LeaderboardCache) Generation(ctx context.Context, challengeID int64) (int64, error) {
	if c == nil {
		return 0, nil
	}
	gen, err := c.client.Get(ctx, genKey(challengeID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *LeaderboardCache) Get(ctx context.Context, challengeID int64) ([]challenge.LeaderboardEntry, error) {
	if c == nil {
		return nil, ErrMiss
	}
	data, err := c.client.Get(ctx, Key(challengeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	var entries []challenge.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("cache: decode leaderboard: %w", err)
	}
	return entries, nil
}

// Set stores entries only if no invalidation happened since gen was read, so a board
// loaded before a commit never overwrites the invalidation that commit made.
func (c *LeaderboardCache) Set(ctx context.Context, challengeID, gen int64, entries []challenge.LeaderboardEntry) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("cache: encode leaderboard: %w", err)
	}

	gk := genKey(challengeID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, Key(challengeID), data, c.ttl)
			return nil
		})
		return err
	}, gk)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate drops the cached leaderboard and bumps its generation. Every mutation of
// membership or progress calls it after commit.
func (c *LeaderboardCache) Invalidate(ctx context.Context, challengeID int64) error {
	if c == nil {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(challengeID))
		pipe.Del(ctx, Key(challengeID))
		return nil
	})
	return err
}

func (c *LeaderboardCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
