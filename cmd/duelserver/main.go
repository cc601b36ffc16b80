// Package main provides the duel server binary that wires persistence,
// the duel engine, and the dialog flows behind a transport-agnostic
// handler. Chat adapters connect to the DuelHandler; none are bundled.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/fdumontet/ringside/internal/config"
	"github.com/fdumontet/ringside/internal/game/dice"
	"github.com/fdumontet/ringside/internal/game/duel"
	"github.com/fdumontet/ringside/internal/game/flow"
	"github.com/fdumontet/ringside/internal/gameserver"
	"github.com/fdumontet/ringside/internal/observability"
	"github.com/fdumontet/ringside/internal/server"
	"github.com/fdumontet/ringside/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	sweepInterval := flag.Duration("sweep-interval", 15*time.Second, "pending dialog expiry sweep interval")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := dice.NewLoggedSource(dice.NewCryptoSource(), logger)

	// Connect to PostgreSQL for character persistence
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	charRepo := postgres.NewCharacterRepository(pool.DB())

	// Narrative catalog
	flavor := gameserver.DefaultFlavor()
	if cfg.Duel.FlavorPath != "" {
		flavor, err = gameserver.LoadFlavor(cfg.Duel.FlavorPath)
		if err != nil {
			logger.Fatal("loading flavor catalog",
				zap.String("path", cfg.Duel.FlavorPath),
				zap.Error(err),
			)
		}
		logger.Info("flavor catalog loaded", zap.String("path", cfg.Duel.FlavorPath))
	}

	engine := duel.NewEngine()
	flows := flow.NewManager(cfg.Duel.ChoiceTimeout, cfg.Duel.ConfirmTimeout, src)
	flows.Notify(func(playerID int64) {
		logger.Info("dialog expired", zap.Int64("player_id", playerID))
	})
	handler := gameserver.NewDuelHandler(engine, charRepo, src, flavor, logger)
	console := gameserver.NewConsole(handler, flows, charRepo, logger, os.Stdin, os.Stdout)

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("console", &server.FuncService{
		StartFn: func() error {
			return console.Run(ctx)
		},
		StopFn: func() {
			console.Stop()
		},
	})

	lifecycle.Add("flow-sweeper", server.NewPeriodic(*sweepInterval, func(context.Context) {
		for _, id := range flows.Expire(time.Now()) {
			logger.Info("dialog expired", zap.Int64("player_id", id))
		}
	}))

	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func() error {
			for {
				time.Sleep(30 * time.Second)
				if err := pool.Health(ctx, 5*time.Second); err != nil {
					logger.Warn("database health check failed", zap.Error(err))
				}
			}
		},
		StopFn: func() {
			pool.Close()
		},
	})

	logger.Info("duel server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Int("active_duels", engine.Len()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
