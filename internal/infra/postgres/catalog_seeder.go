package postgres

import (
	"context"
	"fmt"

	"flagquiz/internal/domain"
	"github.com/uptrace/bun"
)

type countryRow struct {
	bun.BaseModel `bun:"table:countries"`

	Symbol string `bun:"symbol,pk"`
	Name   string `bun:"name,notnull"`
	Tier   string `bun:"tier,notnull"`
}

// SeedCatalog upserts entries into the countries table and returns how many were written.
func SeedCatalog(ctx context.Context, db *bun.DB, entries []domain.CatalogEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	rows := make([]countryRow, len(entries))
	for i, e := range entries {
		rows[i] = countryRow{Symbol: e.Symbol, Name: e.Name, Tier: string(e.Tier)}
	}

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&rows).
			On("CONFLICT (symbol) DO UPDATE").
			Set("name = EXCLUDED.name").
			Set("tier = EXCLUDED.tier").
			Exec(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("seed countries: %w", err)
	}
	return len(rows), nil
}
