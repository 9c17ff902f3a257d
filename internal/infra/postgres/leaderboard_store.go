package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"flagquiz/internal/domain"
	"github.com/uptrace/bun"
)

type leaderboardRow struct {
	bun.BaseModel `bun:"table:flag_leaderboard"`

	ID             int64     `bun:"id,pk,autoincrement"`
	PlayerName     string    `bun:"player_name,notnull"`
	Score          int       `bun:"score,notnull"`
	CorrectAnswers int       `bun:"correct_answers,notnull"`
	TotalQuestions int       `bun:"total_questions,notnull"`
	Accuracy       float64   `bun:"accuracy,notnull"`
	TimeTaken      int       `bun:"time_taken,notnull"`
	Difficulty     string    `bun:"difficulty,notnull"`
	GameDate       time.Time `bun:"game_date,nullzero,notnull,default:current_timestamp"`
}

// LeaderboardStore persists finished games in the flag_leaderboard table.
// Rows are append-only; game_date and id come from the database.
type LeaderboardStore struct {
	db *bun.DB
}

func NewLeaderboardStore(db *bun.DB) *LeaderboardStore {
	return &LeaderboardStore{db: db}
}

func (s *LeaderboardStore) Insert(ctx context.Context, record domain.Record) (domain.Record, error) {
	row := &leaderboardRow{
		PlayerName:     record.PlayerName,
		Score:          record.Score,
		CorrectAnswers: record.CorrectAnswers,
		TotalQuestions: record.TotalQuestions,
		Accuracy:       record.Accuracy,
		TimeTaken:      record.TimeTakenSeconds,
		Difficulty:     string(record.Difficulty),
	}
	if _, err := s.db.NewInsert().Model(row).Returning("id, game_date").Exec(ctx); err != nil {
		return domain.Record{}, fmt.Errorf("%w: insert score: %w", domain.ErrPersistenceUnavailable, err)
	}
	return row.toDomain(), nil
}

func (s *LeaderboardStore) Query(ctx context.Context, limit int, difficulty domain.Difficulty) ([]domain.Record, error) {
	var rows []leaderboardRow
	q := s.db.NewSelect().
		Model(&rows).
		OrderExpr("score DESC").
		OrderExpr("id ASC")
	if difficulty != "" {
		q = q.Where("difficulty = ?", string(difficulty))
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: query leaderboard: %w", domain.ErrPersistenceUnavailable, err)
	}
	return toDomain(rows), nil
}

func (s *LeaderboardStore) Aggregate(ctx context.Context) ([]domain.Record, error) {
	var rows []leaderboardRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: load leaderboard: %w", domain.ErrPersistenceUnavailable, err)
	}
	return toDomain(rows), nil
}

// Ping reports whether the database is reachable.
func (s *LeaderboardStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (r leaderboardRow) toDomain() domain.Record {
	return domain.Record{
		ID:               strconv.FormatInt(r.ID, 10),
		PlayerName:       r.PlayerName,
		Score:            r.Score,
		CorrectAnswers:   r.CorrectAnswers,
		TotalQuestions:   r.TotalQuestions,
		Accuracy:         r.Accuracy,
		TimeTakenSeconds: r.TimeTaken,
		Difficulty:       domain.Difficulty(r.Difficulty),
		RecordedAt:       r.GameDate,
	}
}

func toDomain(rows []leaderboardRow) []domain.Record {
	out := make([]domain.Record, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out
}
