package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/virden/faceoff/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, "memory")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.DeleteDelayMS, convey.ShouldEqual, 550)
				convey.So(cfg.RepeatProbability, convey.ShouldEqual, 0.25)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FACEOFF_ADDR", ":8080")
			_ = os.Setenv("FACEOFF_QUEUE_SIZE", "500")
			_ = os.Setenv("FACEOFF_INGEST_WORKERS", "4")
			_ = os.Setenv("FACEOFF_DELETE_DELAY_MS", "100")
			_ = os.Setenv("FACEOFF_STORE_DRIVER", "sqlite")
			_ = os.Setenv("FACEOFF_STORE_PATH", "/tmp/faceoff-test.db")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.IngestWorkers, convey.ShouldEqual, 4)
				convey.So(cfg.DeleteDelayMS, convey.ShouldEqual, 100)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, "sqlite")
				convey.So(cfg.StorePath, convey.ShouldEqual, "/tmp/faceoff-test.db")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
queue_size: 2000
ingest_workers: 3
k_factor: 24
loss_limit: 2
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FACEOFF_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2000)
				convey.So(cfg.IngestWorkers, convey.ShouldEqual, 3)
				convey.So(cfg.KFactor, convey.ShouldEqual, 24)
				convey.So(cfg.LossLimit, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
queue_size: 2000
ingest_workers: 3
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FACEOFF_CONFIG", tmpFile)
			_ = os.Setenv("FACEOFF_ADDR", ":8080")       // overrides the file
			_ = os.Setenv("FACEOFF_INGEST_WORKERS", "8") // overrides the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2000)
				convey.So(cfg.IngestWorkers, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FACEOFF_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("FACEOFF_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("FACEOFF_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":9090"
ingest_workers: 6
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FACEOFF_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.IngestWorkers, convey.ShouldEqual, 6)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
				convey.So(cfg.KFactor, convey.ShouldEqual, 32)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("FACEOFF_QUEUE_SIZE", "invalid")
			_ = os.Setenv("FACEOFF_INGEST_WORKERS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given configuration validation", t, func() {
		ctx := context.Background()

		cases := []struct {
			name  string
			key   string
			value string
			wants string
		}{
			{"unknown store driver", "FACEOFF_STORE_DRIVER", "postgres", "store_driver"},
			{"non-positive k factor", "FACEOFF_K_FACTOR", "0", "k_factor"},
			{"pool fraction above one", "FACEOFF_POOL_FRACTION", "1.5", "pool_fraction"},
			{"pool fraction zero", "FACEOFF_POOL_FRACTION", "0", "pool_fraction"},
			{"repeat probability above one", "FACEOFF_REPEAT_PROBABILITY", "1.5", "repeat_probability"},
			{"loss limit below one", "FACEOFF_LOSS_LIMIT", "0", "loss_limit"},
			{"negative delete delay", "FACEOFF_DELETE_DELAY_MS", "-1", "delete_delay_ms"},
		}

		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				_ = os.Setenv(tc.key, tc.value)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should reject the config", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.wants)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}

		convey.Convey("When sqlite is selected without a path", func() {
			_ = os.Setenv("FACEOFF_STORE_DRIVER", "sqlite")
			_ = os.Setenv("FACEOFF_STORE_PATH", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "store_path")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"FACEOFF_CONFIG",
		"FACEOFF_ADDR",
		"FACEOFF_STORE_DRIVER",
		"FACEOFF_STORE_PATH",
		"FACEOFF_QUEUE_SIZE",
		"FACEOFF_INGEST_WORKERS",
		"FACEOFF_DEDUPE_SIZE",
		"FACEOFF_INITIAL_RATING",
		"FACEOFF_K_FACTOR",
		"FACEOFF_POOL_FRACTION",
		"FACEOFF_REPEAT_PROBABILITY",
		"FACEOFF_SELECT_ATTEMPTS",
		"FACEOFF_LOSS_LIMIT",
		"FACEOFF_DELETE_DELAY_MS",
		"FACEOFF_MAX_LEADERBOARD_LIMIT",
		"FACEOFF_RNG_SEED",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "faceoff-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
