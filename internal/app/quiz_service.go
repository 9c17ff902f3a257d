package app

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"flagquiz/internal/catalog"
	"flagquiz/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxPlayerNameLength bounds leaderboard names, counted in runes.
	MaxPlayerNameLength = 20

	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// SessionRepository abstracts where live player sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Add(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// LeaderboardStore persists finished games. Implementations assign ID and
// RecordedAt on insert and wrap backend failures in domain.ErrPersistenceUnavailable.
type LeaderboardStore interface {
	Insert(ctx context.Context, record domain.Record) (domain.Record, error)
	// Query returns up to limit records by score descending, earliest insert first on ties.
	// An empty difficulty means all tiers.
	Query(ctx context.Context, limit int, difficulty domain.Difficulty) ([]domain.Record, error)
	// Aggregate returns every record in insertion order.
	Aggregate(ctx context.Context) ([]domain.Record, error)
}

// Option customizes a QuizService.
type Option func(*QuizService)

// WithLeaderboardLimits sets the default and maximum leaderboard page size.
func WithLeaderboardLimits(def, max int) Option {
	return func(s *QuizService) {
		if def > 0 {
			s.defaultLimit = def
		}
		if max > 0 {
			s.maxLimit = max
		}
	}
}

// WithSessionFactory replaces how new sessions are built (deterministic tests).
func WithSessionFactory(factory func(id string, cat *catalog.Catalog) *Session) Option {
	return func(s *QuizService) {
		s.newSession = factory
	}
}

// QuizService contains the flag quiz use cases for one process.
type QuizService struct {
	sessions   SessionRepository
	catalog    *catalog.Catalog
	board      LeaderboardStore
	logger     *zap.Logger
	newSession func(id string, cat *catalog.Catalog) *Session

	defaultLimit int
	maxLimit     int
}

func NewQuizService(sessions SessionRepository, cat *catalog.Catalog, board LeaderboardStore, logger *zap.Logger, opts ...Option) *QuizService {
	s := &QuizService{
		sessions:     sessions,
		catalog:      cat,
		board:        board,
		logger:       logger,
		newSession:   NewSession,
		defaultLimit: defaultLeaderboardLimit,
		maxLimit:     maxLeaderboardLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultLimit > s.maxLimit {
		s.defaultLimit = s.maxLimit
	}
	return s
}

// Open creates an idle session for a new player connection.
func (s *QuizService) Open(_ context.Context) SessionSnapshot {
	session := s.newSession(uuid.NewString(), s.catalog)
	s.sessions.Add(session)
	return session.Snapshot()
}

// Close discards a player's session.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// Start begins a game on an existing session.
func (s *QuizService) Start(_ context.Context, sessionID string, difficulty domain.Difficulty, totalQuestions int) (SessionSnapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SessionSnapshot{}, err
	}
	snap, err := session.Start(difficulty, totalQuestions)
	if err != nil {
		return SessionSnapshot{}, err
	}
	s.logger.Info("game started",
		zap.String("session", sessionID),
		zap.String("difficulty", string(difficulty)),
		zap.Int("questions", totalQuestions),
	)
	return snap, nil
}

// Answer submits the player's choice for the current question. When the next
// question cannot be drawn the game is finished and both the result and the
// error are returned.
func (s *QuizService) Answer(_ context.Context, sessionID, selected string) (AnswerResult, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return AnswerResult{}, err
	}
	result, err := session.Answer(selected)
	if result.Finished {
		s.logFinished(sessionID, *result.Final)
		if err != nil {
			s.logger.Error("next question not drawn", zap.String("session", sessionID), zap.Error(err))
		}
	}
	return result, err
}

// EndEarly stops an active game and returns its final score.
func (s *QuizService) EndEarly(_ context.Context, sessionID string) (domain.FinalScore, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.FinalScore{}, err
	}
	final, err := session.EndEarly()
	if err != nil {
		return domain.FinalScore{}, err
	}
	s.logFinished(sessionID, final)
	return final, nil
}

// Snapshot returns the session's current state.
func (s *QuizService) Snapshot(_ context.Context, sessionID string) (SessionSnapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// Save records a finished game on the leaderboard. A persistence failure keeps
// the final score on the session so the caller can retry.
func (s *QuizService) Save(ctx context.Context, sessionID, playerName string) (domain.Record, error) {
	name, err := normalizePlayerName(playerName)
	if err != nil {
		return domain.Record{}, err
	}
	session, err := s.session(sessionID)
	if err != nil {
		return domain.Record{}, err
	}
	final, err := session.beginSave()
	if err != nil {
		return domain.Record{}, err
	}

	record, err := s.board.Insert(ctx, domain.NewRecord(name, final))
	session.endSave(err == nil)
	if err != nil {
		s.logger.Warn("score not saved", zap.String("session", sessionID), zap.Error(err))
		return domain.Record{}, err
	}
	s.logger.Info("score saved",
		zap.String("session", sessionID),
		zap.String("record", record.ID),
		zap.Int("score", record.Score),
	)
	return record, nil
}

// Leaderboard returns the top records, optionally filtered by difficulty.
func (s *QuizService) Leaderboard(ctx context.Context, limit int, difficulty domain.Difficulty) ([]domain.Record, error) {
	if difficulty != "" && !difficulty.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDifficulty, difficulty)
	}
	return s.board.Query(ctx, s.clampLimit(limit), difficulty)
}

// Stats aggregates all recorded games.
func (s *QuizService) Stats(ctx context.Context) (domain.Stats, error) {
	records, err := s.board.Aggregate(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return ComputeStats(records), nil
}

// Catalog lists the countries of one tier.
func (s *QuizService) Catalog(difficulty domain.Difficulty) ([]domain.CatalogEntry, error) {
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDifficulty, difficulty)
	}
	return s.catalog.EntriesFor(difficulty), nil
}

// Country resolves a flag symbol to its catalog entry.
func (s *QuizService) Country(symbol string) (domain.CatalogEntry, error) {
	entry, ok := s.catalog.Lookup(symbol)
	if !ok {
		return domain.CatalogEntry{}, fmt.Errorf("%w: %q", domain.ErrCountryNotFound, symbol)
	}
	return entry, nil
}

func (s *QuizService) session(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *QuizService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func (s *QuizService) logFinished(sessionID string, final domain.FinalScore) {
	s.logger.Info("game finished",
		zap.String("session", sessionID),
		zap.Int("score", final.Score),
		zap.Int("correct", final.CorrectAnswers),
		zap.Int("total", final.TotalQuestions),
		zap.Duration("elapsed", time.Duration(final.TimeTakenSeconds)*time.Second),
	)
}

func normalizePlayerName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: empty", domain.ErrInvalidPlayerName)
	}
	if utf8.RuneCountInString(name) > MaxPlayerNameLength {
		return "", fmt.Errorf("%w: longer than %d characters", domain.ErrInvalidPlayerName, MaxPlayerNameLength)
	}
	return name, nil
}
