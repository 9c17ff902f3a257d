package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"flagquiz/internal/app"
	"flagquiz/internal/catalog"
	"flagquiz/internal/config"
	"flagquiz/internal/domain"
	"flagquiz/internal/infra/memory"
	"flagquiz/internal/infra/postgres"
	redisinfra "flagquiz/internal/infra/redis"
	"flagquiz/internal/logger"
	transport "flagquiz/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	checks := make(map[string]transport.HealthCheck)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	var board app.LeaderboardStore = memory.NewLeaderboardStore()
	if cfg.Postgres.URL != "" {
		db := postgres.Open(cfg.Postgres.URL)
		defer db.Close()
		if err := migrateDB(ctx, db, log); err != nil {
			return err
		}
		pgStore := postgres.NewLeaderboardStore(db)
		checks["postgres"] = pgStore.Ping
		board = pgStore
	}

	cat, err := loadCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}

	cacheTTL := config.TTLDuration(cfg.Leaderboard.CacheTTL, 30*time.Second)
	switch {
	case redisClient != nil:
		board = redisinfra.NewLeaderboardCache(redisClient, board, cacheTTL, log)
	case cfg.Postgres.URL != "":
		board = memory.NewLeaderboardCache(board, cacheTTL)
	}

	var sessions app.SessionRepository = memory.NewSessionStore()
	var liveSessions *redisinfra.SessionStore
	if redisClient != nil {
		liveSessions = redisinfra.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute), log)
		sessions = liveSessions
	}

	service := app.NewQuizService(sessions, cat, board, log,
		app.WithLeaderboardLimits(cfg.Leaderboard.DefaultLimit, cfg.Leaderboard.MaxLimit))
	router := transport.NewRouter(
		transport.NewRESTHandler(service, log, checks),
		transport.NewWSHandler(service, log, cfg.Quiz.DefaultQuestions),
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting flag quiz service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if liveSessions != nil {
		g.Go(func() error {
			reportLiveSessions(gctx, liveSessions, log)
			return nil
		})
	}
	return g.Wait()
}

func loadCatalog(ctx context.Context, cfg config.Config, log *zap.Logger) (*catalog.Catalog, error) {
	var loader catalog.Loader = catalog.NewStaticLoader(catalog.Builtin())
	if cfg.Quiz.Catalog == config.CatalogPostgres {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		loader = postgres.NewCatalogLoader(pool)
	}

	cat, err := catalog.Load(ctx, loader)
	if err != nil {
		return nil, err
	}
	tiers := cat.Tiers()
	log.Info("catalog loaded",
		zap.String("source", cfg.Quiz.Catalog),
		zap.Int("easy", tiers[domain.Easy]),
		zap.Int("medium", tiers[domain.Medium]),
		zap.Int("hard", tiers[domain.Hard]),
	)
	return cat, nil
}

func reportLiveSessions(ctx context.Context, sessions *redisinfra.SessionStore, log *zap.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.LiveSessions(ctx)
			if err != nil {
				log.Warn("live session count failed", zap.Error(err))
				continue
			}
			log.Debug("live sessions", zap.Int("count", n))
		}
	}
}
