package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/Simplici0/scrapboard/internal/spot"
)

const (
	defaultDBPath      = "./scrapboard.db"
	defaultPort        = "3000"
	defaultEnv         = "development"
	defaultLogLevel    = "info"
	defaultFeedTimeout = 10 * time.Second
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env         string
	Port        string
	DBPath      string
	SpotFeedURL string
	FeedTimeout time.Duration
	// CatalogFile overrides the embedded catalog definition when set.
	CatalogFile string
	LogLevel    string
	LogFile     string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	loadDotEnv(".env")

	cfg := Config{
		Env:         os.Getenv("APP_ENV"),
		Port:        os.Getenv("PORT"),
		DBPath:      os.Getenv("DB_PATH"),
		SpotFeedURL: strings.TrimSpace(os.Getenv("SPOT_FEED_URL")),
		FeedTimeout: defaultFeedTimeout,
		CatalogFile: strings.TrimSpace(os.Getenv("CATALOG_FILE")),
		LogLevel:    strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
		LogFile:     strings.TrimSpace(os.Getenv("LOG_FILE")),
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.SpotFeedURL == "" {
		cfg.SpotFeedURL = spot.DefaultURL
	}

	if raw := strings.TrimSpace(os.Getenv("SPOT_FEED_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			log.Printf("warning: SPOT_FEED_TIMEOUT %q is invalid, using %s", raw, defaultFeedTimeout)
		} else {
			cfg.FeedTimeout = d
		}
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	case "":
		cfg.LogLevel = defaultLogLevel
	default:
		log.Printf("warning: LOG_LEVEL %q is not recognised, using %s", cfg.LogLevel, defaultLogLevel)
		cfg.LogLevel = defaultLogLevel
	}

	return cfg
}

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv || c.Env == "dev"
}
