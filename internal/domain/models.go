package domain

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is a catalog tier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the tiers from easiest to hardest.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty normalizes raw input into a Difficulty.
func ParseDifficulty(raw string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, raw)
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// Points is the score awarded for one correct answer at this difficulty.
func (d Difficulty) Points() int {
	switch d {
	case Easy:
		return 10
	case Medium:
		return 20
	case Hard:
		return 30
	}
	return 0
}

// CatalogEntry maps a flag symbol to its country within a tier.
type CatalogEntry struct {
	Symbol string     `json:"symbol"`
	Name   string     `json:"name"`
	Tier   Difficulty `json:"tier"`
}

// Question is one multiple-choice round. Options holds the correct name plus
// three distractors in presentation order.
type Question struct {
	PromptSymbol string   `json:"promptSymbol"`
	CorrectName  string   `json:"-"`
	Options      []string `json:"options"`
}

// HasOption reports whether name is one of the offered options.
func (q Question) HasOption(name string) bool {
	for _, opt := range q.Options {
		if opt == name {
			return true
		}
	}
	return false
}

// SessionState is the quiz lifecycle state.
type SessionState string

const (
	StateIdle     SessionState = "idle"
	StateActive   SessionState = "active"
	StateFinished SessionState = "finished"
)

// Rating is the end-of-game performance verdict derived from accuracy.
type Rating string

const (
	RatingExcellent     Rating = "excellent"
	RatingGood          Rating = "good"
	RatingFair          Rating = "fair"
	RatingNeedsPractice Rating = "needs_practice"
)

// FinalScore is the scoring engine output for a finished game.
type FinalScore struct {
	Difficulty       Difficulty `json:"difficulty"`
	CorrectAnswers   int        `json:"correctAnswers"`
	TotalQuestions   int        `json:"totalQuestions"`
	RunningScore     int        `json:"runningScore"`
	Accuracy         float64    `json:"accuracy"`
	TimeTakenSeconds int        `json:"timeTakenSeconds"`
	TimeBonus        int        `json:"timeBonus"`
	AccuracyBonus    int        `json:"accuracyBonus"`
	Score            int        `json:"score"`
	Rating           Rating     `json:"rating"`
}

// Record is an immutable leaderboard entry. ID and RecordedAt are assigned by the store.
type Record struct {
	ID               string     `json:"id"`
	PlayerName       string     `json:"playerName"`
	Score            int        `json:"score"`
	CorrectAnswers   int        `json:"correctAnswers"`
	TotalQuestions   int        `json:"totalQuestions"`
	Accuracy         float64    `json:"accuracy"`
	TimeTakenSeconds int        `json:"timeTakenSeconds"`
	Difficulty       Difficulty `json:"difficulty"`
	RecordedAt       time.Time  `json:"recordedAt"`
}

// NewRecord builds an unsaved record from a final score.
func NewRecord(playerName string, final FinalScore) Record {
	return Record{
		PlayerName:       playerName,
		Score:            final.Score,
		CorrectAnswers:   final.CorrectAnswers,
		TotalQuestions:   final.TotalQuestions,
		Accuracy:         final.Accuracy,
		TimeTakenSeconds: final.TimeTakenSeconds,
		Difficulty:       final.Difficulty,
	}
}

// DifficultyStats aggregates records of one tier.
type DifficultyStats struct {
	Difficulty      Difficulty `json:"difficulty"`
	Games           int        `json:"games"`
	AverageScore    float64    `json:"averageScore"`
	MaxScore        int        `json:"maxScore"`
	AverageAccuracy float64    `json:"averageAccuracy"`
	AverageTime     float64    `json:"averageTimeSeconds"`
}

// ScoreBucket is one histogram bin covering [Min, Max).
type ScoreBucket struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Stats summarizes every recorded game.
type Stats struct {
	TotalGames      int               `json:"totalGames"`
	AverageScore    float64           `json:"averageScore"`
	HighestScore    int               `json:"highestScore"`
	AverageAccuracy float64           `json:"averageAccuracy"`
	ByDifficulty    []DifficultyStats `json:"byDifficulty"`
	Histogram       []ScoreBucket     `json:"histogram"`
	Recent          []Record          `json:"recent"`
}
