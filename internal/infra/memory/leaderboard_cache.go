package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"flagquiz/internal/app"
	"flagquiz/internal/domain"
	"golang.org/x/sync/singleflight"
)

// LeaderboardCache caches leaderboard reads in-process with TTL to avoid
// repeated DB hits. Inserts go straight to the backing store, drop the cache
// and bump gen so reads already in flight do not refill it.
type LeaderboardCache struct {
	next  app.LeaderboardStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu    sync.Mutex
	gen   uint64
	cache map[string]cachedRecords
}

type cachedRecords struct {
	records   []domain.Record
	expiresAt time.Time
}

func NewLeaderboardCache(next app.LeaderboardStore, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		next:  next,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedRecords),
	}
}

func (c *LeaderboardCache) Insert(ctx context.Context, record domain.Record) (domain.Record, error) {
	saved, err := c.next.Insert(ctx, record)
	if err != nil {
		return domain.Record{}, err
	}
	c.mu.Lock()
	c.gen++
	c.cache = make(map[string]cachedRecords)
	c.mu.Unlock()
	return saved, nil
}

func (c *LeaderboardCache) Query(ctx context.Context, limit int, difficulty domain.Difficulty) ([]domain.Record, error) {
	key := "top:" + string(difficulty) + ":" + strconv.Itoa(limit)
	return c.load(key, func() ([]domain.Record, error) {
		return c.next.Query(ctx, limit, difficulty)
	})
}

func (c *LeaderboardCache) Aggregate(ctx context.Context) ([]domain.Record, error) {
	return c.load("all", func() ([]domain.Record, error) {
		return c.next.Aggregate(ctx)
	})
}

func (c *LeaderboardCache) load(key string, fetch func() ([]domain.Record, error)) ([]domain.Record, error) {
	if records, ok := c.lookup(key); ok {
		return records, nil
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	// flights are per generation so reads after an insert never join an older fetch
	flight := key + "@" + strconv.FormatUint(gen, 10)
	result, err, _ := c.sf.Do(flight, func() (interface{}, error) {
		if records, ok := c.lookup(key); ok {
			return records, nil
		}
		records, err := fetch()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		// an insert that landed during fetch makes this page stale
		if c.gen == gen {
			c.cache[key] = cachedRecords{
				records:   records,
				expiresAt: c.clock().Add(c.ttlWithJitter()),
			}
		}
		c.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneRecords(result.([]domain.Record)), nil
}

func (c *LeaderboardCache) lookup(key string) ([]domain.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return nil, false
	}
	return cloneRecords(entry.records), true
}

func (c *LeaderboardCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func cloneRecords(records []domain.Record) []domain.Record {
	out := make([]domain.Record, len(records))
	copy(out, records)
	return out
}
