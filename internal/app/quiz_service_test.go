package app_test

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"flagquiz/internal/app"
	"flagquiz/internal/catalog"
	"flagquiz/internal/domain"
	"flagquiz/internal/infra/memory"
	"go.uber.org/zap"
)

func TestPlayAndSave(t *testing.T) {
	ctx := context.Background()
	service, board := newTestService(t)

	opened := service.Open(ctx)
	snap, err := service.Start(ctx, opened.ID, domain.Easy, 2)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	res, err := service.Answer(ctx, opened.ID, snap.Question.CorrectName)
	if err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	res, err = service.Answer(ctx, opened.ID, res.Next.CorrectName)
	if err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if !res.Finished || res.Final.RunningScore != 20 {
		t.Fatalf("expected finished game with 20 points, got %+v", res)
	}

	rec, err := service.Save(ctx, opened.ID, "  Alice ")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if rec.PlayerName != "Alice" || rec.Score != res.Final.Score || rec.ID == "" {
		t.Fatalf("unexpected record %+v", rec)
	}

	if _, err := service.Save(ctx, opened.ID, "Alice"); !errors.Is(err, domain.ErrScoreAlreadySaved) {
		t.Fatalf("expected already saved, got %v", err)
	}

	top, err := service.Leaderboard(ctx, 0, "")
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(top) != 1 || top[0].ID != rec.ID {
		t.Fatalf("expected saved record on leaderboard, got %+v", top)
	}
	all, _ := board.Aggregate(ctx)
	if len(all) != 1 {
		t.Fatalf("expected one stored record, got %d", len(all))
	}
}

func TestSaveRequiresFinishedGame(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	opened := service.Open(ctx)
	if _, err := service.Save(ctx, opened.ID, "Bob"); !errors.Is(err, domain.ErrGameNotFinished) {
		t.Fatalf("expected not finished, got %v", err)
	}
	if _, err := service.Start(ctx, opened.ID, domain.Hard, 5); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := service.Save(ctx, opened.ID, "Bob"); !errors.Is(err, domain.ErrGameNotFinished) {
		t.Fatalf("expected not finished while active, got %v", err)
	}
}

func TestSaveValidatesPlayerName(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	opened := service.Open(ctx)

	for _, name := range []string{"", "   ", strings.Repeat("x", app.MaxPlayerNameLength+1)} {
		if _, err := service.Save(ctx, opened.ID, name); !errors.Is(err, domain.ErrInvalidPlayerName) {
			t.Fatalf("name %q: expected invalid name, got %v", name, err)
		}
	}
}

func TestSaveFailureKeepsScoreForRetry(t *testing.T) {
	ctx := context.Background()
	cat := mustCatalog(t)
	board := &flakyStore{LeaderboardStore: memory.NewLeaderboardStore(), failures: 1}
	service := app.NewQuizService(memory.NewSessionStore(), cat, board, zap.NewNop())

	opened := service.Open(ctx)
	if _, err := service.Start(ctx, opened.ID, domain.Medium, 3); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	final, err := service.EndEarly(ctx, opened.ID)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}

	if _, err := service.Save(ctx, opened.ID, "Carol"); !errors.Is(err, domain.ErrPersistenceUnavailable) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	snap, _ := service.Snapshot(ctx, opened.ID)
	if snap.State != domain.StateFinished || snap.Final == nil || snap.Final.Score != final.Score || snap.Saved {
		t.Fatalf("expected finished game intact after failed save, got %+v", snap)
	}

	if _, err := service.Save(ctx, opened.ID, "Carol"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestUnknownSession(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.Start(ctx, "missing", domain.Easy, 5); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, err := service.Answer(ctx, "missing", "France"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}

	opened := service.Open(ctx)
	service.Close(ctx, opened.ID)
	if _, err := service.Snapshot(ctx, opened.ID); err != domain.ErrSessionNotFound {
		t.Fatalf("expected closed session to be gone, got %v", err)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	a := service.Open(ctx)
	b := service.Open(ctx)
	if a.ID == b.ID {
		t.Fatalf("expected distinct session ids")
	}
	if _, err := service.Start(ctx, a.ID, domain.Easy, 5); err != nil {
		t.Fatalf("start a: %v", err)
	}
	snapB, _ := service.Snapshot(ctx, b.ID)
	if snapB.State != domain.StateIdle {
		t.Fatalf("expected b idle, got %s", snapB.State)
	}
}

func TestLeaderboardLimitsAndFilter(t *testing.T) {
	ctx := context.Background()
	board := memory.NewLeaderboardStore()
	for i := 0; i < 15; i++ {
		d := domain.Easy
		if i%3 == 0 {
			d = domain.Hard
		}
		_, _ = board.Insert(ctx, domain.Record{PlayerName: "p", Score: i, Difficulty: d})
	}
	service := app.NewQuizService(memory.NewSessionStore(), mustCatalog(t), board, zap.NewNop(),
		app.WithLeaderboardLimits(10, 12))

	got, _ := service.Leaderboard(ctx, 0, "")
	if len(got) != 10 || got[0].Score != 14 {
		t.Fatalf("expected default page of 10 led by 14, got %d records", len(got))
	}
	got, _ = service.Leaderboard(ctx, 50, "")
	if len(got) != 12 {
		t.Fatalf("expected clamp to 12, got %d", len(got))
	}
	got, _ = service.Leaderboard(ctx, 10, domain.Hard)
	if len(got) != 5 {
		t.Fatalf("expected 5 hard records, got %d", len(got))
	}
	if _, err := service.Leaderboard(ctx, 10, "expert"); !errors.Is(err, domain.ErrInvalidDifficulty) {
		t.Fatalf("expected invalid difficulty, got %v", err)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	board := memory.NewLeaderboardStore()
	_, _ = board.Insert(ctx, domain.Record{PlayerName: "a", Score: 100, Accuracy: 50, Difficulty: domain.Easy})
	_, _ = board.Insert(ctx, domain.Record{PlayerName: "b", Score: 300, Accuracy: 100, Difficulty: domain.Hard})
	service := app.NewQuizService(memory.NewSessionStore(), mustCatalog(t), board, zap.NewNop())

	stats, err := service.Stats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalGames != 2 || stats.HighestScore != 300 || stats.AverageScore != 200 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestDeterministicSessionFactory(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	factory := func(id string, cat *catalog.Catalog) *app.Session {
		return app.NewSessionWithClock(id, cat, func() time.Time { return clock }, rand.New(rand.NewSource(1)))
	}
	service := app.NewQuizService(memory.NewSessionStore(), mustCatalog(t), memory.NewLeaderboardStore(), zap.NewNop(),
		app.WithSessionFactory(factory))

	a := service.Open(ctx)
	b := service.Open(ctx)
	snapA, _ := service.Start(ctx, a.ID, domain.Hard, 3)
	snapB, _ := service.Start(ctx, b.ID, domain.Hard, 3)
	if snapA.Question.PromptSymbol != snapB.Question.PromptSymbol {
		t.Fatalf("expected identical seeded draws")
	}
	if !snapA.StartedAt.Equal(clock) {
		t.Fatalf("expected injected clock, got %v", snapA.StartedAt)
	}
}

func newTestService(t *testing.T) (*app.QuizService, *memory.LeaderboardStore) {
	t.Helper()
	board := memory.NewLeaderboardStore()
	return app.NewQuizService(memory.NewSessionStore(), mustCatalog(t), board, zap.NewNop()), board
}

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(catalog.Builtin())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

// flakyStore fails the first N inserts.
type flakyStore struct {
	*memory.LeaderboardStore
	failures int
}

func (s *flakyStore) Insert(ctx context.Context, record domain.Record) (domain.Record, error) {
	if s.failures > 0 {
		s.failures--
		return domain.Record{}, domain.ErrPersistenceUnavailable
	}
	return s.LeaderboardStore.Insert(ctx, record)
}

func TestCountryLookup(t *testing.T) {
	service, _ := newTestService(t)

	entry, err := service.Country("🇧🇷")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if entry.Name != "Brazil" || entry.Tier != domain.Easy {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if _, err := service.Country("🏳"); !errors.Is(err, domain.ErrCountryNotFound) {
		t.Fatalf("expected country not found, got %v", err)
	}
}
