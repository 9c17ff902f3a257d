package app

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"flagquiz/internal/catalog"
	"flagquiz/internal/domain"
)

// Session is one player's quiz state machine: idle -> active -> finished.
// A fresh Start from finished begins a new game with reset counters.
type Session struct {
	id      string
	now     func() time.Time
	gen     *Generator
	catalog *catalog.Catalog

	mu             sync.Mutex
	state          domain.SessionState
	difficulty     domain.Difficulty
	totalQuestions int
	questionIndex  int
	answered       int
	correctCount   int
	runningScore   int
	startTime      time.Time
	current        *domain.Question
	tier           []domain.CatalogEntry
	pool           []domain.CatalogEntry
	final          *domain.FinalScore
	saving         bool
	saved          bool
}

// SessionSnapshot is a read-only view of a session for rendering.
type SessionSnapshot struct {
	ID             string              `json:"id"`
	State          domain.SessionState `json:"state"`
	Difficulty     domain.Difficulty   `json:"difficulty,omitempty"`
	TotalQuestions int                 `json:"totalQuestions"`
	QuestionIndex  int                 `json:"questionIndex"`
	CorrectCount   int                 `json:"correctCount"`
	RunningScore   int                 `json:"runningScore"`
	LiveAccuracy   float64             `json:"liveAccuracy"`
	StartedAt      time.Time           `json:"startedAt,omitempty"`
	Question       *domain.Question    `json:"question,omitempty"`
	Final          *domain.FinalScore  `json:"final,omitempty"`
	Saved          bool                `json:"saved"`
}

// AnswerResult reports the outcome of one answer. CorrectName is always set
// so wrong answers can show the right country.
type AnswerResult struct {
	Correct       bool               `json:"correct"`
	Selected      string             `json:"selected"`
	CorrectName   string             `json:"correctName"`
	Awarded       int                `json:"awarded"`
	RunningScore  int                `json:"runningScore"`
	QuestionIndex int                `json:"questionIndex"`
	Finished      bool               `json:"finished"`
	Next          *domain.Question   `json:"next,omitempty"`
	Final         *domain.FinalScore `json:"final,omitempty"`
}

// NewSession creates an idle session with a time-seeded generator.
func NewSession(id string, cat *catalog.Catalog) *Session {
	return NewSessionWithClock(id, cat, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSessionWithClock allows deterministic timestamps and draws in tests.
func NewSessionWithClock(id string, cat *catalog.Catalog, now func() time.Time, rnd *rand.Rand) *Session {
	return &Session{
		id:      id,
		now:     now,
		gen:     NewGenerator(rnd),
		catalog: cat,
		state:   domain.StateIdle,
	}
}

func (s *Session) ID() string { return s.id }

// Start begins a new game. It is rejected while a game is active.
func (s *Session) Start(difficulty domain.Difficulty, totalQuestions int) (SessionSnapshot, error) {
	if !difficulty.Valid() {
		return SessionSnapshot{}, fmt.Errorf("%w: %q", domain.ErrInvalidDifficulty, difficulty)
	}
	if totalQuestions <= 0 {
		return SessionSnapshot{}, fmt.Errorf("%w: %d", domain.ErrInvalidQuestionCount, totalQuestions)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.StateActive {
		return SessionSnapshot{}, domain.ErrSessionActive
	}

	tier := s.catalog.EntriesFor(difficulty)
	pool := make([]domain.CatalogEntry, len(tier))
	copy(pool, tier)
	question, pool, err := s.gen.Draw(pool, tier)
	if err != nil {
		return SessionSnapshot{}, err
	}

	s.difficulty = difficulty
	s.totalQuestions = totalQuestions
	s.questionIndex = 1
	s.answered = 0
	s.correctCount = 0
	s.runningScore = 0
	s.startTime = s.now()
	s.tier = tier
	s.pool = pool
	s.current = &question
	s.final = nil
	s.saving = false
	s.saved = false
	s.state = domain.StateActive

	return s.snapshotLocked(), nil
}

// Answer scores the selected option and advances to the next question or
// finishes the game after the last one.
func (s *Session) Answer(selected string) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateActive {
		return AnswerResult{}, domain.ErrNoActiveSession
	}
	if !s.current.HasOption(selected) {
		return AnswerResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownOption, selected)
	}

	result := AnswerResult{
		Selected:    selected,
		CorrectName: s.current.CorrectName,
	}
	s.answered++
	if selected == s.current.CorrectName {
		points := s.difficulty.Points()
		s.correctCount++
		s.runningScore += points
		result.Correct = true
		result.Awarded = points
	}
	result.RunningScore = s.runningScore
	result.QuestionIndex = s.questionIndex

	if s.questionIndex >= s.totalQuestions {
		final := s.finishLocked()
		result.Finished = true
		result.Final = &final
		return result, nil
	}

	question, pool, err := s.gen.Draw(s.pool, s.tier)
	if err != nil {
		// Catalog is validated at load, so this only fires on a corrupted tier.
		final := s.finishLocked()
		result.Finished = true
		result.Final = &final
		return result, err
	}
	s.pool = pool
	s.current = &question
	s.questionIndex++
	next := question
	result.Next = &next
	return result, nil
}

// EndEarly finishes an active game with the counters accumulated so far.
func (s *Session) EndEarly() (domain.FinalScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateActive {
		return domain.FinalScore{}, domain.ErrNoActiveSession
	}
	return s.finishLocked(), nil
}

// Snapshot returns the current state for display.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// beginSave reserves the finished game for a single leaderboard insert.
func (s *Session) beginSave() (domain.FinalScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateFinished || s.final == nil {
		return domain.FinalScore{}, domain.ErrGameNotFinished
	}
	if s.saved || s.saving {
		return domain.FinalScore{}, domain.ErrScoreAlreadySaved
	}
	s.saving = true
	return *s.final, nil
}

// endSave releases the reservation; a failed insert leaves the game savable.
func (s *Session) endSave(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	s.saved = s.saved || ok
}

func (s *Session) finishLocked() domain.FinalScore {
	final := Finalize(s.difficulty, s.correctCount, s.totalQuestions, s.runningScore, s.startTime, s.now())
	s.final = &final
	s.current = nil
	s.state = domain.StateFinished
	return final
}

func (s *Session) snapshotLocked() SessionSnapshot {
	snap := SessionSnapshot{
		ID:             s.id,
		State:          s.state,
		Difficulty:     s.difficulty,
		TotalQuestions: s.totalQuestions,
		QuestionIndex:  s.questionIndex,
		CorrectCount:   s.correctCount,
		RunningScore:   s.runningScore,
		StartedAt:      s.startTime,
		Saved:          s.saved,
	}
	if s.answered > 0 {
		snap.LiveAccuracy = float64(100*s.correctCount) / float64(s.answered)
	}
	if s.current != nil {
		q := *s.current
		q.Options = append([]string(nil), s.current.Options...)
		snap.Question = &q
	}
	if s.final != nil {
		final := *s.final
		snap.Final = &final
	}
	return snap
}
