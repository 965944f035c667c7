package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultGeocoderURL       = "https://nominatim.openstreetmap.org/search"
	defaultGeocoderUserAgent = "divelog/1.0 (+https://github.com/seabook/divelog)"
	defaultGeocoderTimeout   = 10 * time.Second
	defaultGeocoderDelay     = 300 * time.Millisecond
	defaultProbeTimeout      = 2 * time.Second
	defaultImportBatchSize   = 10
)

// Config holds environment-driven settings for the dive-log API.
type Config struct {
	DatabaseURL       string
	Port              int
	BearerToken       string
	DefaultLimit      int
	GeocoderURL       string
	GeocoderUserAgent string
	GeocoderTimeout   time.Duration
	GeocoderDelay     time.Duration
	ProbeHosts        []string
	ProbeTimeout      time.Duration
	ImportBatchSize   int
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:              8080,
		DefaultLimit:      200,
		GeocoderURL:       defaultGeocoderURL,
		GeocoderUserAgent: defaultGeocoderUserAgent,
		GeocoderTimeout:   defaultGeocoderTimeout,
		GeocoderDelay:     defaultGeocoderDelay,
		ProbeTimeout:      defaultProbeTimeout,
		ImportBatchSize:   defaultImportBatchSize,
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	}

	if limitStr := os.Getenv("API_DEFAULT_LIMIT"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			cfg.DefaultLimit = limit
		} else {
			return cfg, fmt.Errorf("invalid API_DEFAULT_LIMIT: %s", limitStr)
		}
	}

	if v := strings.TrimSpace(os.Getenv("GEOCODER_URL")); v != "" {
		cfg.GeocoderURL = v
	}
	if v := strings.TrimSpace(os.Getenv("GEOCODER_USER_AGENT")); v != "" {
		cfg.GeocoderUserAgent = v
	}
	if v := strings.TrimSpace(os.Getenv("GEOCODER_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GEOCODER_TIMEOUT: %s", v)
		}
		cfg.GeocoderTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("GEOCODER_DELAY")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GEOCODER_DELAY: %s", v)
		}
		cfg.GeocoderDelay = d
	}

	if v := strings.TrimSpace(os.Getenv("PROBE_HOSTS")); v != "" {
		for _, host := range strings.Split(v, ",") {
			if host = strings.TrimSpace(host); host != "" {
				cfg.ProbeHosts = append(cfg.ProbeHosts, host)
			}
		}
	}
	if v := strings.TrimSpace(os.Getenv("PROBE_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid PROBE_TIMEOUT: %s", v)
		}
		cfg.ProbeTimeout = d
	}

	if v := os.Getenv("IMPORT_BATCH_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil && size > 0 {
			cfg.ImportBatchSize = size
		} else {
			return cfg, fmt.Errorf("invalid IMPORT_BATCH_SIZE: %s", v)
		}
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
