package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
)

type Config struct {
	Port string

	// Pathstore publishing (optional; empty URL disables it)
	PathstoreURL    string
	PathstoreAPIKey string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount          int
	MaxQueueSize         int
	MaxConcurrentPublish int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Batch mode
	InputDir  string
	OutputDir string

	// Outline cache (SQLite); empty disables it
	CachePath   string
	CacheMaxAge time.Duration

	// Engine tuning
	EngineConfig   string
	TocDepthPolicy string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		PathstoreURL:    os.Getenv("PATHSTORE_URL"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),

		APIKey: os.Getenv("DOCOUTLINE_API_KEY"),

		WorkerCount:          envInt("WORKER_COUNT", 4),
		MaxQueueSize:         envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentPublish: envInt("MAX_CONCURRENT_PUBLISH", 10),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		InputDir:  envOr("INPUT_DIR", "input"),
		OutputDir: envOr("OUTPUT_DIR", "output"),

		CachePath:   os.Getenv("CACHE_PATH"),
		CacheMaxAge: envDuration("CACHE_MAX_AGE", 30*24*time.Hour),

		EngineConfig:   os.Getenv("ENGINE_CONFIG"),
		TocDepthPolicy: os.Getenv("TOC_DEPTH_POLICY"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentPublish <= 0 {
		cfg.MaxConcurrentPublish = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks the settings the HTTP server needs.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCOUTLINE_API_KEY is required")
	}
	if c.PathstoreURL != "" && c.PathstoreAPIKey == "" {
		return fmt.Errorf("PATHSTORE_API_KEY is required when PATHSTORE_URL is set")
	}
	if _, err := outline.ParseTocDepthPolicy(c.TocDepthPolicy); err != nil {
		return fmt.Errorf("TOC_DEPTH_POLICY: %w", err)
	}
	return nil
}

// EngineOptions returns the outline engine tuning: defaults, then the
// ENGINE_CONFIG file, then TOC_DEPTH_POLICY.
func (c Config) EngineOptions() (outline.Options, error) {
	opts := outline.DefaultOptions()
	if c.EngineConfig != "" {
		var err error
		if opts, err = LoadEngineOptions(c.EngineConfig); err != nil {
			return opts, err
		}
	}
	if c.TocDepthPolicy != "" {
		policy, err := outline.ParseTocDepthPolicy(c.TocDepthPolicy)
		if err != nil {
			return opts, fmt.Errorf("TOC_DEPTH_POLICY: %w", err)
		}
		opts.TocDepth = policy
	}
	return opts, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
