package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecsmon/ecs-exporter/internal/config"
	"github.com/ecsmon/ecs-exporter/internal/ecs"
	"github.com/ecsmon/ecs-exporter/internal/exporter"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("ecs-exporter starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"clusters", len(cfg.Clusters),
		"region", cfg.Region,
		"listen", cfg.Listen,
		"tls", cfg.TLS.Enabled(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	api, err := ecs.NewAPI(ctx, cfg.Region, cfg.RoleARN)
	if err != nil {
		slog.Error("failed to build ECS client", "err", err)
		os.Exit(1)
	}

	scraper := exporter.NewClusterScraper(ecs.NewCollector(ecs.NewClient(api)), cfg.Clusters)

	// Watch config file for hot-reload; only the cluster list is swapped
	// at runtime, listen/TLS/credential changes need a restart.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			scraper.SetClusters(updated.Clusters)
			slog.Info("cluster list updated", "clusters", len(updated.Clusters))
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	server := exporter.New(exporter.Config{
		Listen:   cfg.Listen,
		CertFile: cfg.TLS.CertFile,
		KeyFile:  cfg.TLS.KeyFile,
	}, scraper)

	if err := server.Run(ctx); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("ecs-exporter shutting down")
}
