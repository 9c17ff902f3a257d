package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"flagquiz/internal/domain"
	"github.com/oklog/ulid/v2"
)

// LeaderboardStore keeps records in insertion order. It is the default store
// when no database is configured and the fake used in service tests.
type LeaderboardStore struct {
	clock   func() time.Time
	mu      sync.RWMutex
	entropy *ulid.MonotonicEntropy
	records []domain.Record
}

func NewLeaderboardStore() *LeaderboardStore {
	return NewLeaderboardStoreWithClock(time.Now)
}

// NewLeaderboardStoreWithClock allows deterministic RecordedAt values in tests.
func NewLeaderboardStoreWithClock(clock func() time.Time) *LeaderboardStore {
	return &LeaderboardStore{
		clock:   clock,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (s *LeaderboardStore) Insert(_ context.Context, record domain.Record) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: record id: %w", domain.ErrPersistenceUnavailable, err)
	}
	record.ID = id.String()
	record.RecordedAt = now
	s.records = append(s.records, record)
	return record, nil
}

func (s *LeaderboardStore) Query(_ context.Context, limit int, difficulty domain.Difficulty) ([]domain.Record, error) {
	s.mu.RLock()
	matched := make([]domain.Record, 0, len(s.records))
	for _, r := range s.records {
		if difficulty == "" || r.Difficulty == difficulty {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	// stable: equal scores keep insertion order
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *LeaderboardStore) Aggregate(_ context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}
