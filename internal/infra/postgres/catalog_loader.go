package postgres

import (
	"context"
	"fmt"

	"flagquiz/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads the country catalog from the countries table.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	rows, err := l.pool.Query(ctx, `SELECT symbol, name, tier FROM countries ORDER BY tier, name`)
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		var e domain.CatalogEntry
		var tier string
		if err := rows.Scan(&e.Symbol, &e.Name, &tier); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		e.Tier = domain.Difficulty(tier)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read countries: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: countries table is empty, run seed-catalog", domain.ErrCatalogInvalid)
	}
	return entries, nil
}
