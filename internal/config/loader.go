package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if FACEOFF_CONFIG is set
//  3. env (prefix FACEOFF_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("FACEOFF_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: FACEOFF_ADDR, FACEOFF_QUEUE_SIZE, ...
	// Map env keys like FACEOFF_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("FACEOFF_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "faceoff_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the engine cannot run with.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.StoreDriver != "memory" && c.StoreDriver != "sqlite" {
		return fmt.Errorf("%w: store_driver must be memory or sqlite, got %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.StoreDriver == "sqlite" && c.StorePath == "" {
		return fmt.Errorf("%w: store_path must not be empty for sqlite", ErrInvalidConfig)
	}
	if c.KFactor <= 0 {
		return fmt.Errorf("%w: k_factor must be positive, got %v", ErrInvalidConfig, c.KFactor)
	}
	if c.PoolFraction <= 0 || c.PoolFraction > 1 {
		return fmt.Errorf("%w: pool_fraction must be in (0,1], got %v", ErrInvalidConfig, c.PoolFraction)
	}
	if c.RepeatProbability < 0 || c.RepeatProbability > 1 {
		return fmt.Errorf("%w: repeat_probability must be in [0,1], got %v", ErrInvalidConfig, c.RepeatProbability)
	}
	if c.LossLimit < 1 {
		return fmt.Errorf("%w: loss_limit must be at least 1, got %d", ErrInvalidConfig, c.LossLimit)
	}
	if c.DeleteDelayMS < 0 {
		return fmt.Errorf("%w: delete_delay_ms must not be negative, got %d", ErrInvalidConfig, c.DeleteDelayMS)
	}
	return nil
}
