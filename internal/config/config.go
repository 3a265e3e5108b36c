// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment overrides on top.
// - External errors must be wrapped via this package's error kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the persistence backend: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// StorePath locates the sqlite database file.
	StorePath string `koanf:"store_path"`

	// QueueSize bounds the in-memory ingest queue.
	QueueSize int `koanf:"queue_size"`

	// IngestWorkers sets the number of admission workers.
	IngestWorkers int `koanf:"ingest_workers"`

	// DedupeSize bounds the ingest source-dedup cache.
	DedupeSize int `koanf:"dedupe_size"`

	// InitialRating is assigned to every newly admitted item.
	InitialRating float64 `koanf:"initial_rating"`

	// KFactor scales rating movement per verdict.
	KFactor float64 `koanf:"k_factor"`

	// PoolFraction sets the least-compared candidate pool share for
	// casual pair selection.
	PoolFraction float64 `koanf:"pool_fraction"`

	// RepeatProbability is the chance an already-seen pair is served
	// anyway.
	RepeatProbability float64 `koanf:"repeat_probability"`

	// SelectAttempts bounds the novelty search per pick.
	SelectAttempts int `koanf:"select_attempts"`

	// LossLimit is the tournament elimination threshold.
	LossLimit int `koanf:"loss_limit"`

	// DeleteDelayMS is the grace window before a scheduled removal fires.
	DeleteDelayMS int `koanf:"delete_delay_ms"`

	// MaxLeaderboardLimit caps GET /items?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RNGSeed seeds selection and tournament shuffles; 0 means
	// time-seeded.
	RNGSeed int64 `koanf:"rng_seed"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		StoreDriver:         "memory",
		StorePath:           "faceoff.db",
		QueueSize:           10_000,
		IngestWorkers:       2,
		DedupeSize:          50_000,
		InitialRating:       1200,
		KFactor:             32,
		PoolFraction:        0.4,
		RepeatProbability:   0.25,
		SelectAttempts:      20,
		LossLimit:           3,
		DeleteDelayMS:       550,
		MaxLeaderboardLimit: 100,
		RNGSeed:             0,
	}
}
