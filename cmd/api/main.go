package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/controllers"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/routes"
	category "github.com/leviwaynedaily/red-carpet-distro-sub000/internal/categories"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/gate"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/icons"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/media"
	product "github.com/leviwaynedaily/red-carpet-distro-sub000/internal/products"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/settings"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/auth/session"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/config"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/metrics"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/migrate"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/redis"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()), dbClient, cfg.Password, logg)
	if err != nil {
		logg.Error(ctx, "failed to create settings service", err)
		os.Exit(1)
	}
	if err := settingsService.SeedPasswords(ctx, cfg.Gate); err != nil {
		logg.Error(ctx, "failed to seed gate passwords", err)
		os.Exit(1)
	}

	categoryService, err := category.NewService(category.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(ctx, "failed to create category service", err)
		os.Exit(1)
	}

	productService, err := product.NewService(product.NewRepository(dbClient.DB()), dbClient, cfg.Catalog)
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(media.NewRepository(dbClient.DB()), gcsClient, cfg.Media, logg)
	if err != nil {
		logg.Error(ctx, "failed to create media service", err)
		os.Exit(1)
	}

	iconOptions, err := icons.OptionsFromConfig(cfg.Icons)
	if err != nil {
		logg.Error(ctx, "invalid icon configuration", err)
		os.Exit(1)
	}
	pipeline, err := icons.NewPipeline(gcsClient, iconOptions, logg, icons.WithMetrics(metrics.NewIconMetrics(registry)))
	if err != nil {
		logg.Error(ctx, "failed to create icon pipeline", err)
		os.Exit(1)
	}
	iconService, err := icons.NewService(pipeline, settingsService, cfg.Media.MaxUploadBytes(), logg)
	if err != nil {
		logg.Error(ctx, "failed to create icon service", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	gateService, err := gate.NewService(gate.ServiceParams{
		Settings:       settingsService,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create gate service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("K_REVISION")
	if id == "" {
		id = "local"
	}
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(
			cfg,
			logg,
			registry,
			metrics.NewHTTPMetrics(registry),
			map[string]controllers.Pinger{
				"db":    dbClient,
				"redis": redisClient,
				"gcs":   gcsClient,
			},
			redisClient,
			sessionManager,
			gateService,
			settingsService,
			productService,
			categoryService,
			mediaService,
			iconService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "graceful shutdown failed", err)
		}
	}
}
