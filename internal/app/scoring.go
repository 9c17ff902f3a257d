package app

import (
	"math"
	"time"

	"flagquiz/internal/domain"
)

const (
	// speedWindow is how long a game can take and still earn a time bonus.
	speedWindow = 300
	// speedDivisor converts unused seconds into bonus points.
	speedDivisor = 10
)

// Finalize computes the end-of-game score. Accuracy is measured against the
// configured total, so games ended early count unanswered questions as misses.
func Finalize(difficulty domain.Difficulty, correct, total, running int, start, end time.Time) domain.FinalScore {
	elapsed := int(end.Sub(start) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	var accuracy float64
	if total > 0 {
		accuracy = float64(100*correct) / float64(total)
	}

	timeBonus := 0
	if elapsed < speedWindow {
		timeBonus = (speedWindow - elapsed) / speedDivisor
	}
	accuracyBonus := int(math.Floor(accuracy * 2))

	return domain.FinalScore{
		Difficulty:       difficulty,
		CorrectAnswers:   correct,
		TotalQuestions:   total,
		RunningScore:     running,
		Accuracy:         accuracy,
		TimeTakenSeconds: elapsed,
		TimeBonus:        timeBonus,
		AccuracyBonus:    accuracyBonus,
		Score:            running + timeBonus + accuracyBonus,
		Rating:           RateAccuracy(accuracy),
	}
}

// RateAccuracy buckets accuracy into a performance verdict.
func RateAccuracy(accuracy float64) domain.Rating {
	switch {
	case accuracy >= 90:
		return domain.RatingExcellent
	case accuracy >= 70:
		return domain.RatingGood
	case accuracy >= 50:
		return domain.RatingFair
	default:
		return domain.RatingNeedsPractice
	}
}
