package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"bulletin/internal/board"
	"bulletin/internal/config"
	"bulletin/internal/logging"
	"bulletin/internal/metrics"
	"bulletin/internal/store"
	"bulletin/internal/sweeper"
)

// Worker runs the expiration sweeper without serving HTTP, for deployments
// that keep the API replicas stateless.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFilePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("worker exited")
	}
	// os.Exit skips defers, so the log file is closed by hand
	_ = closer.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg config.App, logger zerolog.Logger) (err error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info().Msg("shutdown signal received")
		cancel()
	}()

	if cfg.SentryDSN != "" {
		if initErr := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.Env}); initErr != nil {
			logger.Error().Err(initErr).Msg("sentry init failed")
		} else {
			defer func() {
				if err != nil {
					sentry.CaptureException(err)
				}
				sentry.Flush(2 * time.Second)
			}()
		}
	}

	db, err := store.NewDB(ctx, cfg.DatabaseURL, cfg.DBConnectTimeout)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	var opts []sweeper.Option
	if cfg.RedisAddr != "" {
		redisClient := store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		opts = append(opts, sweeper.WithLease(store.NewLease(redisClient, sweeper.LeaseKey, sweeper.LeaseOwner("worker"), cfg.SweepLeaseTTL)))
	}

	m := metrics.New(prometheus.NewRegistry())
	sw := sweeper.New(board.NewRepository(db.Client), cfg.SweepInterval, logger, m, opts...)

	logger.Info().Dur("interval", cfg.SweepInterval).Msg("worker started")
	sw.Run(ctx)
	logger.Info().Msg("worker stopped")
	return nil
}
