package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/metrics"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/notify"
	"github.com/Dosada05/league-system/referee"
	"github.com/Dosada05/league-system/repositories"
	api "github.com/Dosada05/league-system/routes"
	"github.com/Dosada05/league-system/services"
	"github.com/Dosada05/league-system/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
)

const (
	shutdownTimeout  = 15 * time.Second
	mutationsPerSec  = 5
	mutationsBurst   = 20
	migrationTimeout = 30 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		logger.Error("failed to load match policy", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Int("duplicate_window_seconds", policy.DuplicateWindowSeconds),
		slog.Int("min_participation_seconds", policy.MinParticipationSeconds))

	pool := db.DefaultPool()
	pool.MaxOpen = cfg.DBMaxOpenConns
	dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, pool)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), migrationTimeout)
	err = db.Migrate(migrateCtx, dbConn)
	cancelMigrate()
	if err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database ready")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var uploader storage.FileUploader
	if cfg.StorageEnabled() {
		uploader, err = storage.NewR2Uploader(ctx, storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized")
	} else {
		logger.Warn("object storage not configured, logo uploads and match report archives are disabled")
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run(ctx)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewPrometheusRecorder(registry)
	if err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	notifier := notify.Multi{notify.NewHubNotifier(wsHub)}
	if cfg.NotifyWebhookURL != "" {
		notifier = append(notifier, notify.NewWebhookNotifier(cfg.NotifyWebhookURL, logger))
		logger.Info("webhook notifications enabled")
	}

	container := services.NewContainer(repositories.NewPostgresSet(dbConn), services.ContainerDeps{
		Policy:   policy,
		Hub:      wsHub,
		Notifier: notifier,
		Uploader: uploader,
		Obs: services.Observability{
			Logger:  logger,
			Metrics: recorder,
			Tracer:  otel.Tracer("github.com/Dosada05/league-system"),
		},
	})
	logger.Info("services initialized")

	sessions := referee.NewStore()
	clock := referee.NewClock(sessions, func(snap referee.Snapshot) {
		wsHub.BroadcastToRoom(live.FixtureRoom(snap.FixtureID), live.Message{Type: live.TypeSessionState, Payload: snap})
	}, logger)
	go clock.Run(ctx)

	if cfg.StatsSyncInterval > 0 {
		go runStatsSync(ctx, container.Stats, cfg.StatsSyncInterval, logger)
	} else {
		logger.Info("player stats scheduler disabled")
	}

	auth := middleware.NewAuthenticator(cfg.JWTSecretKey, logger)
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Match:     handlers.NewMatchHandler(container.Match),
		Session:   handlers.NewSessionHandler(sessions, container.Match, wsHub),
		Admin:     handlers.NewAdminHandler(container.Admin),
		Team:      handlers.NewTeamHandler(container.Teams),
		Dashboard: handlers.NewDashboardHandler(container.Dashboard),
		WebSocket: handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins, logger),
	}, api.Options{
		Auth:           auth,
		Limiter:        middleware.NewRateLimiter(mutationsPerSec, mutationsBurst),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	stop()
	logger.Info("application exited")
}

// runStatsSync repairs player counter drift on a fixed interval. The first run happens at
// startup.
func runStatsSync(ctx context.Context, stats *services.StatsService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("player stats scheduler started", slog.Duration("interval", interval))

	run := func() {
		result, err := stats.SyncAllPlayerStats(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("scheduled stats sync failed", slog.Any("error", err))
			}
			return
		}
		if result.DiscrepanciesFound > 0 {
			logger.Warn("scheduled stats sync corrected drift",
				slog.Int("players_updated", result.PlayersUpdated),
				slog.Int("discrepancies_found", result.DiscrepanciesFound))
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			logger.Info("player stats scheduler stopped")
			return
		case <-ticker.C:
			run()
		}
	}
}
