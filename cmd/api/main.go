// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the credential authority HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables and flags.
//  3. Open the credential directory (PostgreSQL + migrations, or memory).
//  4. Connect to Redis, the expiring key-value store.
//  5. Build the authority for the configured scheme.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/credauth/internal/api"
	"github.com/taibuivan/credauth/internal/platform/config"
	"github.com/taibuivan/credauth/internal/platform/constants"
	"github.com/taibuivan/credauth/internal/platform/metrics"
	"github.com/taibuivan/credauth/internal/platform/middleware"
	"github.com/taibuivan/credauth/internal/platform/migration"
	pgstore "github.com/taibuivan/credauth/internal/platform/postgres"
	redisstore "github.com/taibuivan/credauth/internal/platform/redis"
	"github.com/taibuivan/credauth/internal/platform/sec"
	"github.com/taibuivan/credauth/internal/users/auth"
	"github.com/taibuivan/credauth/internal/users/requests"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load(os.Args[1:])
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("scheme", string(cfg.AuthScheme)),
		slog.String("directory", cfg.DirectoryDriver),
	)

	// Root context for the process. Cancelled on SIGINT/SIGTERM.
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Startup gets a 30s deadline so misconfiguration is caught quickly
	// rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Credential Directory ───────────────────────────────────────────
	var (
		pool         *pgxpool.Pool
		directory    auth.Directory
		requestStore requests.Store
	)

	switch cfg.DirectoryDriver {
	case config.DirectoryPostgres:
		pool, err = pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		directory = auth.NewPostgresDirectory(pool)
		requestStore = requests.NewPostgresStore(pool)
	default:
		log.Warn("memory_directory_in_use", slog.String("hint", "accounts are lost on restart"))
		directory = auth.NewMemoryDirectory()
		requestStore = requests.NewMemoryStore()
	}

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, redisstore.ClientOptions{
		PoolSize:         cfg.RedisPoolSize,
		OperationTimeout: cfg.StoreTimeout,
	}, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Credential Authority ───────────────────────────────────────────
	recorder := metrics.NewRecorder()
	options := auth.Options{
		Scheme:    string(cfg.AuthScheme),
		Directory: directory,
		Recorder:  recorder,
	}

	switch cfg.AuthScheme {
	case config.SchemeToken:
		var codec *sec.TokenService
		if cfg.UsesKeyPair() {
			codec, err = sec.NewRSATokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, cfg.JWTIssuer)
		} else {
			codec, err = sec.NewHMACTokenService([]byte(cfg.JWTSecret), cfg.JWTIssuer)
		}
		must(log, err, "initialize token codec")

		options.Codec = codec
		options.Revocations = redisstore.NewStore(rdb, constants.RedisPrefixRevoked, cfg.StoreTimeout)
		options.TokenTTL = cfg.TokenTTL
	case config.SchemeSession:
		options.Sessions = redisstore.NewStore(rdb, constants.RedisPrefixSession, cfg.StoreTimeout)
		options.Session = auth.SessionOptions{TTL: cfg.SessionTTL, Sliding: cfg.SessionSliding}
	}

	authority, err := auth.New(options)
	must(log, err, "build credential authority")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	dependencies := api.HealthDependencies{
		CheckStore: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}
	if pool != nil {
		dependencies.CheckDatabase = func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}
	}
	liveness, readiness := api.NewHealthHandlers(dependencies, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	limiter := middleware.NewRateLimiter(cfg.LoginRateRPS, cfg.LoginRateBurst, cfg.TrustProxyHeaders)
	go limiter.Run(rootCtx)

	gates := api.Middlewares{
		Guard:    middleware.Authenticate(authority, auth.Carrier(authority.Scheme()), recorder),
		Throttle: limiter.Middleware,
	}

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   recorder.Handler(),
		Auth:      auth.NewHandler(authority, cfg.IsProduction()),
		Requests:  requests.NewHandler(requests.NewService(requestStore, log)),
	}

	server := api.NewServer(cfg, log, gates, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the JSON logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
