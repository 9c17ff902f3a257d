package app

import (
	"fmt"
	"math/rand"

	"flagquiz/internal/domain"
)

const optionCount = 4

// Generator draws questions from a pool without replacement.
// It is not safe for concurrent use; each session owns one.
type Generator struct {
	rnd *rand.Rand
}

func NewGenerator(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Draw picks a random entry from pool, removes it and builds a shuffled
// four-option question from tier. An empty pool is refilled from tier first.
// The returned pool may share storage with the argument.
func (g *Generator) Draw(pool, tier []domain.CatalogEntry) (domain.Question, []domain.CatalogEntry, error) {
	if len(tier) == 0 {
		return domain.Question{}, pool, fmt.Errorf("%w: empty tier", domain.ErrInsufficientOptions)
	}
	if len(pool) == 0 {
		pool = make([]domain.CatalogEntry, len(tier))
		copy(pool, tier)
	}

	i := g.rnd.Intn(len(pool))
	picked := pool[i]
	last := len(pool) - 1
	pool[i] = pool[last]
	pool = pool[:last]

	wrong, err := g.distractors(picked.Name, tier)
	if err != nil {
		return domain.Question{}, pool, err
	}

	options := make([]string, 0, optionCount)
	options = append(options, picked.Name)
	options = append(options, wrong...)
	g.rnd.Shuffle(len(options), func(a, b int) {
		options[a], options[b] = options[b], options[a]
	})

	return domain.Question{
		PromptSymbol: picked.Symbol,
		CorrectName:  picked.Name,
		Options:      options,
	}, pool, nil
}

func (g *Generator) distractors(correct string, tier []domain.CatalogEntry) ([]string, error) {
	candidates := make([]string, 0, len(tier))
	for _, e := range tier {
		if e.Name != correct {
			candidates = append(candidates, e.Name)
		}
	}
	need := optionCount - 1
	if len(candidates) < need {
		return nil, fmt.Errorf("%w: %d distractors for %q", domain.ErrInsufficientOptions, len(candidates), correct)
	}
	// partial Fisher-Yates
	for i := 0; i < need; i++ {
		j := i + g.rnd.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	return candidates[:need], nil
}
