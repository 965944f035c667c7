package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/seabook/divelog/services/api/config"
	"github.com/seabook/divelog/services/api/db"
	"github.com/seabook/divelog/services/api/geocode"
	httpserver "github.com/seabook/divelog/services/api/http"
	"github.com/seabook/divelog/services/api/importer"
	"github.com/seabook/divelog/services/api/logger"
)

func main() {
	logger.Setup()
	log := logger.L()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	probeHosts := cfg.ProbeHosts
	if len(probeHosts) == 0 {
		probeHosts = geocode.DefaultProbeHosts
	}
	geo := geocode.New(geocode.Config{
		BaseURL:   cfg.GeocoderURL,
		UserAgent: cfg.GeocoderUserAgent,
		Timeout:   cfg.GeocoderTimeout,
		Delay:     cfg.GeocoderDelay,
		Probe: func(ctx context.Context) bool {
			return geocode.Probe(ctx, probeHosts, cfg.ProbeTimeout)
		},
	})

	progress := importer.NewProgressStore()
	imp := importer.New(store, geo, progress, cfg.ImportBatchSize, log)

	srv := httpserver.New(cfg, store, imp, progress, log)
	if err := srv.Run(ctx); err != nil {
		log.Error("http server failed", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
