package app

import (
	"math"
	"sort"

	"flagquiz/internal/domain"
)

const (
	histogramBins = 20
	recentGames   = 5
)

// ComputeStats aggregates leaderboard records for the statistics view.
func ComputeStats(records []domain.Record) domain.Stats {
	stats := domain.Stats{
		ByDifficulty: []domain.DifficultyStats{},
		Histogram:    []domain.ScoreBucket{},
		Recent:       []domain.Record{},
	}
	if len(records) == 0 {
		return stats
	}

	type acc struct {
		games    int
		score    int
		maxScore int
		accuracy float64
		seconds  int
	}
	perTier := make(map[domain.Difficulty]*acc, len(domain.Difficulties))

	var totalScore int
	var totalAccuracy float64
	stats.HighestScore = records[0].Score
	for _, r := range records {
		totalScore += r.Score
		totalAccuracy += r.Accuracy
		if r.Score > stats.HighestScore {
			stats.HighestScore = r.Score
		}

		a := perTier[r.Difficulty]
		if a == nil {
			a = &acc{maxScore: r.Score}
			perTier[r.Difficulty] = a
		}
		a.games++
		a.score += r.Score
		a.accuracy += r.Accuracy
		a.seconds += r.TimeTakenSeconds
		if r.Score > a.maxScore {
			a.maxScore = r.Score
		}
	}

	n := float64(len(records))
	stats.TotalGames = len(records)
	stats.AverageScore = round1(float64(totalScore) / n)
	stats.AverageAccuracy = round1(totalAccuracy / n)

	for _, d := range domain.Difficulties {
		a, ok := perTier[d]
		if !ok {
			continue
		}
		g := float64(a.games)
		stats.ByDifficulty = append(stats.ByDifficulty, domain.DifficultyStats{
			Difficulty:      d,
			Games:           a.games,
			AverageScore:    round1(float64(a.score) / g),
			MaxScore:        a.maxScore,
			AverageAccuracy: round1(a.accuracy / g),
			AverageTime:     round1(float64(a.seconds) / g),
		})
	}

	stats.Histogram = scoreHistogram(records)
	stats.Recent = mostRecent(records, recentGames)
	return stats
}

// scoreHistogram splits [min, max] into equal-width bins; the max score lands in the last bin.
func scoreHistogram(records []domain.Record) []domain.ScoreBucket {
	lo, hi := records[0].Score, records[0].Score
	for _, r := range records {
		if r.Score < lo {
			lo = r.Score
		}
		if r.Score > hi {
			hi = r.Score
		}
	}
	if lo == hi {
		return []domain.ScoreBucket{{Min: float64(lo), Max: float64(lo + 1), Count: len(records)}}
	}

	width := float64(hi-lo) / histogramBins
	buckets := make([]domain.ScoreBucket, histogramBins)
	for i := range buckets {
		buckets[i].Min = float64(lo) + float64(i)*width
		buckets[i].Max = float64(lo) + float64(i+1)*width
	}
	for _, r := range records {
		i := int(float64(r.Score-lo) / width)
		if i >= histogramBins {
			i = histogramBins - 1
		}
		buckets[i].Count++
	}
	return buckets
}

func mostRecent(records []domain.Record, limit int) []domain.Record {
	sorted := make([]domain.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordedAt.After(sorted[j].RecordedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
