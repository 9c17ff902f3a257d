package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"flagquiz/internal/app"
	"flagquiz/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LeaderboardCache caches leaderboard reads in Redis and falls back to the
// backing store on a miss. Reads are stored as JSON under
//
//	flagquiz:leaderboard:top:{tier|all}:{limit}:v{version}
//	flagquiz:leaderboard:all:v{version}
//
// and every insert bumps flagquiz:leaderboard:version, so stale pages are
// never read again and simply expire. Redis failures are logged and bypassed.
type LeaderboardCache struct {
	client *redis.Client
	next   app.LeaderboardStore
	ttl    time.Duration
	logger *zap.Logger
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewLeaderboardCache(client *redis.Client, next app.LeaderboardStore, ttl time.Duration, logger *zap.Logger) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *LeaderboardCache) Insert(ctx context.Context, record domain.Record) (domain.Record, error) {
	saved, err := c.next.Insert(ctx, record)
	if err != nil {
		return domain.Record{}, err
	}
	if err := c.client.Incr(ctx, versionKey()).Err(); err != nil {
		c.logger.Warn("leaderboard cache not invalidated", zap.Error(err))
	}
	return saved, nil
}

func (c *LeaderboardCache) Query(ctx context.Context, limit int, difficulty domain.Difficulty) ([]domain.Record, error) {
	return c.load(ctx, topKey(limit, difficulty), func() ([]domain.Record, error) {
		return c.next.Query(ctx, limit, difficulty)
	})
}

func (c *LeaderboardCache) Aggregate(ctx context.Context) ([]domain.Record, error) {
	return c.load(ctx, aggregateKey(), func() ([]domain.Record, error) {
		return c.next.Aggregate(ctx)
	})
}

func (c *LeaderboardCache) load(ctx context.Context, base string, fetch func() ([]domain.Record, error)) ([]domain.Record, error) {
	version, err := c.client.Get(ctx, versionKey()).Result()
	if errors.Is(err, redis.Nil) {
		version = "0"
	} else if err != nil {
		c.logger.Warn("leaderboard cache unavailable", zap.Error(err))
		return fetch()
	}
	key := base + ":v" + version

	if records, ok := c.lookup(ctx, key); ok {
		return records, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if records, ok := c.lookup(ctx, key); ok {
			return records, nil
		}
		records, err := fetch()
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(records); err == nil {
			if err := c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err(); err != nil {
				c.logger.Warn("leaderboard cache not filled", zap.String("key", key), zap.Error(err))
			}
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	records := result.([]domain.Record)
	out := make([]domain.Record, len(records))
	copy(out, records)
	return out, nil
}

func (c *LeaderboardCache) lookup(ctx context.Context, key string) ([]domain.Record, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var records []domain.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false
	}
	return records, true
}

func (c *LeaderboardCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
