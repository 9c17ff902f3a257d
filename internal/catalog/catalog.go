package catalog

import (
	"context"
	"fmt"
	"strings"

	"flagquiz/internal/domain"
)

// MinTierSize is the smallest tier that can produce four distinct options.
const MinTierSize = 4

// Loader fetches raw catalog entries from a backing store.
type Loader interface {
	LoadCatalog(ctx context.Context) ([]domain.CatalogEntry, error)
}

// Catalog is an immutable, validated set of countries partitioned into tiers.
type Catalog struct {
	tiers    map[domain.Difficulty][]domain.CatalogEntry
	bySymbol map[string]domain.CatalogEntry
}

// Load reads entries from loader and validates them.
func Load(ctx context.Context, loader Loader) (*Catalog, error) {
	entries, err := loader.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return New(entries)
}

// New validates entries and builds the catalog. Symbols must be unique across
// all tiers, names unique within a tier, and every tier needs MinTierSize entries.
func New(entries []domain.CatalogEntry) (*Catalog, error) {
	c := &Catalog{
		tiers:    make(map[domain.Difficulty][]domain.CatalogEntry, len(domain.Difficulties)),
		bySymbol: make(map[string]domain.CatalogEntry, len(entries)),
	}
	names := make(map[domain.Difficulty]map[string]struct{}, len(domain.Difficulties))

	for _, e := range entries {
		e.Symbol = strings.TrimSpace(e.Symbol)
		e.Name = strings.TrimSpace(e.Name)
		if !e.Tier.Valid() {
			return nil, fmt.Errorf("%w: entry %q has tier %q", domain.ErrCatalogInvalid, e.Symbol, e.Tier)
		}
		if e.Symbol == "" || e.Name == "" {
			return nil, fmt.Errorf("%w: empty symbol or name in tier %s", domain.ErrCatalogInvalid, e.Tier)
		}
		if prev, dup := c.bySymbol[e.Symbol]; dup {
			return nil, fmt.Errorf("%w: symbol %q listed in %s and %s", domain.ErrCatalogInvalid, e.Symbol, prev.Tier, e.Tier)
		}
		if names[e.Tier] == nil {
			names[e.Tier] = make(map[string]struct{})
		}
		if _, dup := names[e.Tier][e.Name]; dup {
			return nil, fmt.Errorf("%w: name %q repeated in tier %s", domain.ErrCatalogInvalid, e.Name, e.Tier)
		}
		names[e.Tier][e.Name] = struct{}{}
		c.bySymbol[e.Symbol] = e
		c.tiers[e.Tier] = append(c.tiers[e.Tier], e)
	}

	for _, tier := range domain.Difficulties {
		if n := len(c.tiers[tier]); n < MinTierSize {
			return nil, fmt.Errorf("%w: %s has %d", domain.ErrInsufficientOptions, tier, n)
		}
	}
	return c, nil
}

// EntriesFor returns a copy of the tier's entries in load order.
func (c *Catalog) EntriesFor(tier domain.Difficulty) []domain.CatalogEntry {
	entries := c.tiers[tier]
	out := make([]domain.CatalogEntry, len(entries))
	copy(out, entries)
	return out
}

// Size returns the number of entries in a tier.
func (c *Catalog) Size(tier domain.Difficulty) int {
	return len(c.tiers[tier])
}

// Tiers reports the size of every tier, easiest first.
func (c *Catalog) Tiers() map[domain.Difficulty]int {
	out := make(map[domain.Difficulty]int, len(domain.Difficulties))
	for _, tier := range domain.Difficulties {
		out[tier] = len(c.tiers[tier])
	}
	return out
}

// Lookup finds an entry by flag symbol.
func (c *Catalog) Lookup(symbol string) (domain.CatalogEntry, bool) {
	e, ok := c.bySymbol[symbol]
	return e, ok
}

// StaticLoader serves a fixed entry list (the built-in catalog by default).
type StaticLoader struct {
	entries []domain.CatalogEntry
}

func NewStaticLoader(entries []domain.CatalogEntry) *StaticLoader {
	return &StaticLoader{entries: entries}
}

func (l *StaticLoader) LoadCatalog(_ context.Context) ([]domain.CatalogEntry, error) {
	out := make([]domain.CatalogEntry, len(l.entries))
	copy(out, l.entries)
	return out, nil
}
