package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ttlSummary   = 30 * 24 * time.Hour
	defaultLimit = 20
)

// RedisStore keeps game summaries and a capped list of recent game IDs.
type RedisStore struct {
	rdb   *redis.Client
	limit int
}

// DialRedis connects to url ("redis://host:port/db") and pings the server.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewRedisStore wraps rdb. A non-positive limit uses the default of 20.
func NewRedisStore(rdb *redis.Client, limit int) *RedisStore {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &RedisStore{rdb: rdb, limit: limit}
}

func (s *RedisStore) keyGame(id string) string { return "termchess:game:" + strings.TrimSpace(id) }
func (s *RedisStore) keyRecent() string        { return "termchess:recent" }

// SaveSummary stores sum and moves its ID to the front of the recent list.
func (s *RedisStore) SaveSummary(ctx context.Context, sum Summary) error {
	if strings.TrimSpace(sum.GameID) == "" {
		return fmt.Errorf("summary without game id")
	}
	raw, err := json.Marshal(sum)
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.keyGame(sum.GameID), raw, ttlSummary)
		p.LRem(ctx, s.keyRecent(), 0, sum.GameID)
		p.LPush(ctx, s.keyRecent(), sum.GameID)
		p.LTrim(ctx, s.keyRecent(), 0, int64(s.limit-1))
		return nil
	})
	return err
}

// Get loads one summary. Returns ErrNotFound for unknown or expired IDs.
func (s *RedisStore) Get(ctx context.Context, id string) (Summary, error) {
	raw, err := s.rdb.Get(ctx, s.keyGame(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Summary{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	if err := json.Unmarshal(raw, &sum); err != nil {
		return Summary{}, fmt.Errorf("decode summary %s: %w", id, err)
	}
	return sum, nil
}

// Recent returns the newest summaries first. Expired entries are skipped.
func (s *RedisStore) Recent(ctx context.Context) ([]Summary, error) {
	ids, err := s.rdb.LRange(ctx, s.keyRecent(), 0, int64(s.limit-1)).Result()
	if err != nil {
		return nil, err
	}
	var out []Summary
	for _, id := range ids {
		sum, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
