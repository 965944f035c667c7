// Command importcli runs a one-shot CSV import against the configured
// database, without going through the HTTP API. Useful for bulk loads and
// for dry-running a file before uploading it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/seabook/divelog/services/api/config"
	"github.com/seabook/divelog/services/api/db"
	"github.com/seabook/divelog/services/api/geocode"
	"github.com/seabook/divelog/services/api/importer"
	"github.com/seabook/divelog/services/api/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	file := flag.String("file", "", "path to the CSV file to import (required)")
	withGeocode := flag.Bool("geocode", false, "resolve missing coordinates via the geocoding service")
	dryRun := flag.Bool("dry-run", false, "validate and report without persisting anything")
	timeout := flag.Duration("timeout", 300*time.Second, "overall import timeout")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		return fmt.Errorf("-file is required")
	}

	logger.Setup()
	log := logger.L()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
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

	runID := uuid.NewString()
	report, err := imp.Run(ctx, *file, importer.Options{
		RunID:   runID,
		Geocode: *withGeocode,
		DryRun:  *dryRun,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d rows, %d imported, %d skipped, %d errors\n",
		runID, report.Total, report.Imported, report.Skipped, len(report.Errors))
	for _, msg := range report.Success {
		fmt.Println("  ok:", msg)
	}
	for _, msg := range report.Warnings {
		fmt.Println("  warn:", msg)
	}
	for _, msg := range report.Errors {
		fmt.Println("  error:", msg)
	}
	if *dryRun {
		fmt.Println("dry run: nothing was persisted")
	}
	return nil
}
