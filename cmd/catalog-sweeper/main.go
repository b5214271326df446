package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/openreel/openreel-backend/internal/upload"
	"github.com/openreel/openreel-backend/internal/upload/consumer"
	"github.com/openreel/openreel-backend/pkg/config"
	"github.com/openreel/openreel-backend/pkg/db"
	"github.com/openreel/openreel-backend/pkg/logger"
	"github.com/openreel/openreel-backend/pkg/metrics"
	"github.com/openreel/openreel-backend/pkg/pubsub"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "catalog-sweeper"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "catalog-sweeper"
	if cfg.PubSub.StorageEventsSubscription == "" {
		logg.Error(ctx, "resource not working: storage events subscription",
			errors.New("OPENREEL_PUBSUB_STORAGE_SUBSCRIPTION is required"))
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "catalog-sweeper",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer pubsubClient.Close()

	sweeper, err := consumer.NewSweeper(
		upload.NewRepository(dbClient.DB()),
		pubsubClient.StorageEventsSubscription(),
		logg,
		metrics.NewPipelineMetrics(nil),
	)
	requireResource(ctx, logg, "catalog sweeper", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"serviceKind": cfg.Service.Kind,
		"env":         cfg.App.Env,
	})
	logg.Info(runCtx, "catalog sweeper ready")

	if err := sweeper.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "catalog sweeper stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
