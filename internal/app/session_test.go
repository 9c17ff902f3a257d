package app

import (
	"math/rand"
	"testing"
	"time"

	"flagquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestSession(t *testing.T) (*Session, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewSessionWithClock("s-1", builtinCatalog(t), clock.Now, rand.New(rand.NewSource(11))), clock
}

func wrongOption(q *domain.Question) string {
	for _, opt := range q.Options {
		if opt != q.CorrectName {
			return opt
		}
	}
	return ""
}

func TestStartValidatesInput(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Start("expert", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidDifficulty)

	_, err = s.Start(domain.Easy, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuestionCount)

	assert.Equal(t, domain.StateIdle, s.Snapshot().State)
}

func TestStartPopulatesFirstQuestion(t *testing.T) {
	s, clock := newTestSession(t)

	snap, err := s.Start(domain.Easy, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.StateActive, snap.State)
	assert.Equal(t, 1, snap.QuestionIndex)
	assert.Equal(t, 0, snap.CorrectCount)
	assert.Equal(t, 0, snap.RunningScore)
	assert.Equal(t, clock.now, snap.StartedAt)
	require.NotNil(t, snap.Question)
	assert.Len(t, snap.Question.Options, 4)
}

func TestAllCorrectEasyGame(t *testing.T) {
	s, clock := newTestSession(t)
	snap, err := s.Start(domain.Easy, 5)
	require.NoError(t, err)

	q := snap.Question
	var res AnswerResult
	for i := 0; i < 5; i++ {
		clock.Advance(10 * time.Second)
		res, err = s.Answer(q.CorrectName)
		require.NoError(t, err)
		assert.True(t, res.Correct)
		assert.Equal(t, 10, res.Awarded)
		q = res.Next
	}

	require.True(t, res.Finished)
	require.NotNil(t, res.Final)
	final := res.Final
	assert.Equal(t, 5, final.CorrectAnswers)
	assert.Equal(t, 50, final.RunningScore)
	assert.Equal(t, 100.0, final.Accuracy)
	assert.Equal(t, 50, final.TimeTakenSeconds)
	assert.Equal(t, 25, final.TimeBonus)
	assert.Equal(t, 50+25+200, final.Score)
	assert.Equal(t, domain.StateFinished, s.Snapshot().State)
	assert.Nil(t, s.Snapshot().Question)
}

func TestAllWrongMediumGame(t *testing.T) {
	s, _ := newTestSession(t)
	snap, err := s.Start(domain.Medium, 10)
	require.NoError(t, err)

	q := snap.Question
	var res AnswerResult
	for i := 0; i < 10; i++ {
		res, err = s.Answer(wrongOption(q))
		require.NoError(t, err)
		assert.False(t, res.Correct)
		assert.Equal(t, q.CorrectName, res.CorrectName)
		assert.Equal(t, 0, res.RunningScore)
		q = res.Next
	}

	require.True(t, res.Finished)
	assert.Equal(t, 0, res.Final.CorrectAnswers)
	assert.Equal(t, 0.0, res.Final.Accuracy)
	assert.Equal(t, res.Final.TimeBonus, res.Final.Score)
}

func TestEndEarlyKeepsConfiguredTotal(t *testing.T) {
	s, _ := newTestSession(t)
	snap, err := s.Start(domain.Hard, 10)
	require.NoError(t, err)

	res, err := s.Answer(snap.Question.CorrectName)
	require.NoError(t, err)
	_, err = s.Answer(res.Next.CorrectName)
	require.NoError(t, err)

	final, err := s.EndEarly()
	require.NoError(t, err)
	assert.Equal(t, 10, final.TotalQuestions)
	assert.Equal(t, 2, final.CorrectAnswers)
	assert.Equal(t, 60, final.RunningScore)
	assert.Equal(t, 20.0, final.Accuracy)
	assert.Equal(t, domain.StateFinished, s.Snapshot().State)
}

func TestTransitionsOutsideActiveFail(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Answer("France")
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
	_, err = s.EndEarly()
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	_, err = s.Start(domain.Easy, 1)
	require.NoError(t, err)
	_, err = s.Start(domain.Easy, 1)
	assert.ErrorIs(t, err, domain.ErrSessionActive)

	_, err = s.EndEarly()
	require.NoError(t, err)
	_, err = s.Answer("France")
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
	_, err = s.EndEarly()
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	snap, err := s.Start(domain.Medium, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.StateActive, snap.State)
	assert.Nil(t, snap.Final)
	assert.Equal(t, 1, snap.QuestionIndex)
}

func TestUnknownOptionLeavesStateUntouched(t *testing.T) {
	s, _ := newTestSession(t)
	snap, err := s.Start(domain.Easy, 3)
	require.NoError(t, err)

	_, err = s.Answer("Atlantis")
	assert.ErrorIs(t, err, domain.ErrUnknownOption)

	after := s.Snapshot()
	assert.Equal(t, snap.QuestionIndex, after.QuestionIndex)
	assert.Equal(t, snap.Question.PromptSymbol, after.Question.PromptSymbol)
}

func TestInvariantsHoldAcrossLongGame(t *testing.T) {
	s, _ := newTestSession(t)
	// longer than the easy tier so the pool refills mid-game
	snap, err := s.Start(domain.Easy, 45)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(5))
	q := snap.Question
	prevScore := 0
	seen := make(map[string]bool)
	for i := 0; i < 45; i++ {
		if i < 20 {
			assert.False(t, seen[q.PromptSymbol], "repeat before exhausting the tier")
			seen[q.PromptSymbol] = true
		}
		choice := q.Options[rnd.Intn(len(q.Options))]
		res, err := s.Answer(choice)
		require.NoError(t, err)

		cur := s.Snapshot()
		assert.GreaterOrEqual(t, res.RunningScore, prevScore)
		if res.Correct {
			assert.Equal(t, prevScore+10, res.RunningScore)
		} else {
			assert.Equal(t, prevScore, res.RunningScore)
		}
		prevScore = res.RunningScore
		assert.LessOrEqual(t, cur.QuestionIndex, cur.TotalQuestions)
		assert.LessOrEqual(t, cur.CorrectCount, cur.QuestionIndex)
		if res.Finished {
			assert.Equal(t, 44, i)
			assert.GreaterOrEqual(t, res.Final.Accuracy, 0.0)
			assert.LessOrEqual(t, res.Final.Accuracy, 100.0)
			break
		}
		q = res.Next
	}
}

func TestLiveAccuracyUsesAnsweredQuestions(t *testing.T) {
	s, _ := newTestSession(t)
	snap, err := s.Start(domain.Easy, 10)
	require.NoError(t, err)

	res, err := s.Answer(snap.Question.CorrectName)
	require.NoError(t, err)
	_, err = s.Answer(wrongOption(res.Next))
	require.NoError(t, err)

	assert.Equal(t, 50.0, s.Snapshot().LiveAccuracy)
}

func TestSaveReservation(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.beginSave()
	assert.ErrorIs(t, err, domain.ErrGameNotFinished)

	_, err = s.Start(domain.Easy, 1)
	require.NoError(t, err)
	_, err = s.EndEarly()
	require.NoError(t, err)

	_, err = s.beginSave()
	require.NoError(t, err)
	_, err = s.beginSave()
	assert.ErrorIs(t, err, domain.ErrScoreAlreadySaved)

	s.endSave(false)
	_, err = s.beginSave()
	require.NoError(t, err, "failed insert must leave the game savable")
	s.endSave(true)
	assert.True(t, s.Snapshot().Saved)
}

// shrinkTier leaves the active game with a tier too small to draw from.
func shrinkTier(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tier = s.tier[:2]
	s.pool = nil
}

func TestAnswerFinishesWhenNextQuestionCannotBeDrawn(t *testing.T) {
	s, _ := newTestSession(t)
	snap, err := s.Start(domain.Easy, 5)
	require.NoError(t, err)
	shrinkTier(s)

	res, err := s.Answer(snap.Question.CorrectName)
	assert.ErrorIs(t, err, domain.ErrInsufficientOptions)
	require.True(t, res.Finished)
	require.NotNil(t, res.Final)
	assert.Equal(t, 1, res.Final.CorrectAnswers)
	assert.Equal(t, domain.StateFinished, s.Snapshot().State)
}
