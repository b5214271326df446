package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/openreel/openreel-backend/api/controllers"
	"github.com/openreel/openreel-backend/api/routes"
	"github.com/openreel/openreel-backend/internal/accesscontrol"
	"github.com/openreel/openreel-backend/internal/devicelink"
	"github.com/openreel/openreel-backend/internal/identity"
	"github.com/openreel/openreel-backend/internal/upload"
	"github.com/openreel/openreel-backend/pkg/config"
	"github.com/openreel/openreel-backend/pkg/db"
	"github.com/openreel/openreel-backend/pkg/logger"
	"github.com/openreel/openreel-backend/pkg/metrics"
	"github.com/openreel/openreel-backend/pkg/migrate"
	"github.com/openreel/openreel-backend/pkg/pubsub"
	"github.com/openreel/openreel-backend/pkg/redis"
	"github.com/openreel/openreel-backend/pkg/storage/gcs"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer gcsClient.Close()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer pubsubClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pipeline := metrics.NewPipelineMetrics(registry)

	uploadService, err := upload.NewService(
		upload.NewRepository(dbClient.DB()),
		gcsClient,
		cfg.GCS.BucketName,
		cfg.GCS.DownloadURLExpiry,
		cfg.Upload.MaxVideoBytes(),
		cfg.Upload.MaxImageBytes(),
		logg,
		pipeline,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create upload service", err)
		os.Exit(1)
	}

	usersRepo := identity.NewRepository(dbClient.DB())
	accessRepo := accesscontrol.NewRepository(dbClient.DB())
	notifier := accesscontrol.NewEventPublisher(pubsubClient.IdentityPublisher(), logg)

	accessManager, err := accesscontrol.NewManager(usersRepo, accessRepo, notifier, logg, pipeline)
	if err != nil {
		logg.Error(context.Background(), "failed to create access manager", err)
		os.Exit(1)
	}

	accessResolver, err := accesscontrol.NewResolver(accessRepo, pipeline)
	if err != nil {
		logg.Error(context.Background(), "failed to create access resolver", err)
		os.Exit(1)
	}

	deviceLink, err := devicelink.NewService(redisClient, cfg.DeviceSessions.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create device link service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config: cfg,
			Logger: logg,
			Pingers: map[string]controllers.Pinger{
				"db":     dbClient,
				"redis":  redisClient,
				"gcs":    gcsClient,
				"pubsub": pubsubClient,
			},
			Registry:   registry,
			Upload:     uploadService,
			Access:     accessManager,
			Resolver:   accessResolver,
			AccessRepo: accessRepo,
			Users:      usersRepo,
			DeviceLink: deviceLink,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
