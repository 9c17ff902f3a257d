package cli

import (
	"context"
	"fmt"

	"flagquiz/internal/catalog"
	"flagquiz/internal/config"
	"flagquiz/internal/infra/postgres"
	"flagquiz/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSeedCatalogCmd writes the built-in country catalog to Postgres.
func NewSeedCatalogCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-catalog",
		Short: "Upsert the built-in country catalog into the countries table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedCatalog(cmd.Context(), *configPath)
		},
	}
}

func runSeedCatalog(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg)
	defer log.Sync()

	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	entries := catalog.Builtin()
	if _, err := catalog.New(entries); err != nil {
		return err
	}

	db := postgres.Open(cfg.Postgres.URL)
	defer db.Close()
	if err := migrateDB(ctx, db, log); err != nil {
		return err
	}

	n, err := postgres.SeedCatalog(ctx, db, entries)
	if err != nil {
		return err
	}
	log.Info("catalog seeded", zap.Int("countries", n))
	return nil
}
