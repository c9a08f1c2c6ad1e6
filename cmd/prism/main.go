package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/truthprism/prism/internal/auth"
	"github.com/truthprism/prism/internal/betting"
	"github.com/truthprism/prism/internal/company"
	"github.com/truthprism/prism/internal/config"
	"github.com/truthprism/prism/internal/domain"
	"github.com/truthprism/prism/internal/events"
	"github.com/truthprism/prism/internal/market"
	"github.com/truthprism/prism/internal/payout"
	"github.com/truthprism/prism/internal/ratelimit"
	"github.com/truthprism/prism/internal/roles"
	"github.com/truthprism/prism/internal/server"
	"github.com/truthprism/prism/internal/store/postgres"
	redisstore "github.com/truthprism/prism/internal/store/redis"
	"github.com/truthprism/prism/internal/treasury"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("PRISM_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("PRISM_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis.
	pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer pubsub.Close()

	// Shared collaborators.
	clock := domain.SystemClock{}
	ledger := treasury.NewMemoryLedger()
	for _, seed := range cfg.Treasury.LedgerSeeds {
		ledger.Credit(seed.Account, seed.Amount)
	}
	if len(cfg.Treasury.LedgerSeeds) > 0 {
		log.Info().Int("accounts", len(cfg.Treasury.LedgerSeeds)).Msg("seeded fee ledger")
	} else {
		log.Warn().Msg("PRISM_LEDGER_SEED not set; registration and grant fees cannot be paid")
	}
	emitter := events.Fanout{
		events.NewLogEmitter(log.Logger),
		events.NewRedisEmitter(pubsub),
	}

	// Engine services.
	companySvc := company.NewService(store.Companies(), ledger, emitter, clock, cfg.Treasury.PlatformAccount)
	roleSvc := roles.NewService(store.Companies(), store.AdminRoles(), ledger, emitter, clock)
	limiter := ratelimit.NewDefault(store.RateLimits())
	marketSvc := market.NewService(store.Companies(), store.Markets(), roleSvc, limiter, emitter, clock)
	bettingSvc := betting.NewService(store.Companies(), store.Markets(), store.Bets(), roleSvc, emitter, clock)
	payoutSvc := payout.NewService(store.Markets(), store.Bets(), emitter, clock)
	authSvc := auth.NewService(cfg.JWT.Secret, cfg.JWT.AccessTTL, clock)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, server.Services{
		Companies: companySvc,
		Roles:     roleSvc,
		Markets:   marketSvc,
		Betting:   bettingSvc,
		Payouts:   payoutSvc,
		Auth:      authSvc,
	}, pubsub)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
