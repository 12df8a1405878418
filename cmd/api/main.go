package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"bulletin/internal/auth"
	"bulletin/internal/board"
	"bulletin/internal/cloudinary"
	"bulletin/internal/config"
	"bulletin/internal/handler"
	"bulletin/internal/logging"
	"bulletin/internal/metrics"
	"bulletin/internal/store"
	"bulletin/internal/sweeper"
)

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
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("api exited")
	}
	// os.Exit skips defers, so the log file is closed by hand
	_ = closer.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg config.App, logger zerolog.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sentryOn := cfg.SentryDSN != ""
	if sentryOn {
		if initErr := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.Env}); initErr != nil {
			logger.Error().Err(initErr).Msg("sentry init failed")
			sentryOn = false
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
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}
	logger.Info().Msg("database ready")

	var redisClient *store.Redis
	var redisPinger handler.Pinger
	if cfg.RedisAddr != "" {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		redisPinger = redisClient
		if !redisClient.Healthy(ctx) {
			logger.Warn().Str("addr", cfg.RedisAddr).Msg("redis not reachable, sweeps will retry the lease")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	repo := board.NewRepository(db.Client)
	var opts []board.Option
	if cfg.CloudinaryConfigured() {
		opts = append(opts, board.WithImageUploader(cloudinary.New(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinarySecret, cfg.CloudinaryFolder)))
		logger.Info().Str("cloud", cfg.CloudinaryName).Msg("kirtan images offloaded to cloudinary")
	}
	svc := board.NewService(repo, m, opts...)

	if cfg.SweeperEnabled {
		var swOpts []sweeper.Option
		if redisClient != nil {
			swOpts = append(swOpts, sweeper.WithLease(store.NewLease(redisClient, sweeper.LeaseKey, sweeper.LeaseOwner("api"), cfg.SweepLeaseTTL)))
		}
		sw := sweeper.New(repo, cfg.SweepInterval, logger, m, swOpts...)
		go sw.Run(ctx)
	}

	rc := handler.RouterConfig{
		Logger:         logger,
		Metrics:        m,
		Gatherer:       reg,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Sentry:         sentryOn,
	}
	if cfg.AdminAuthEnabled {
		rc.AdminAuth = auth.RequireRole(cfg.JWTSigningKey, cfg.JWTIssuer, auth.RoleAdmin)
	} else {
		logger.Warn().Msg("admin delete endpoint is not authenticated, set ADMIN_AUTH_ENABLED to protect it")
	}
	h := handler.New(svc, logger, db, redisPinger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler.NewRouter(h, rc),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down server")

	// outstanding requests get 10 seconds
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced shutdown")
	}
	logger.Info().Msg("server exited")
	return nil
}
