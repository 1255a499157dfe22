package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/trendboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TRENDBOARD_ADDR", ":8080")
			_ = os.Setenv("TRENDBOARD_GATE_POLL_SECONDS", "15")
			_ = os.Setenv("TRENDBOARD_CLOCK_STYLE", "24h")
			_ = os.Setenv("TRENDBOARD_TOP_N", "3")
			_ = os.Setenv("TRENDBOARD_MAX_RESULTS", "8")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.GatePollSeconds, convey.ShouldEqual, 15)
				convey.So(cfg.ClockStyle, convey.ShouldEqual, "24h")
				convey.So(cfg.TopN, convey.ShouldEqual, 3)
				convey.So(cfg.MaxResults, convey.ShouldEqual, 8)
				convey.So(cfg.BroadcastSeconds, convey.ShouldEqual, 60)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
gate_poll_seconds: 30
broadcast_seconds: 10
dataset_file: /etc/trendboard/categories.yaml
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TRENDBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.GatePollSeconds, convey.ShouldEqual, 30)
				convey.So(cfg.BroadcastSeconds, convey.ShouldEqual, 10)
				convey.So(cfg.DatasetFile, convey.ShouldEqual, "/etc/trendboard/categories.yaml")
				convey.So(cfg.TopN, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
top_n: 4
clock_style: 24h
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TRENDBOARD_CONFIG", tmpFile)
			_ = os.Setenv("TRENDBOARD_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")     // Overridden by env
				convey.So(cfg.TopN, convey.ShouldEqual, 4)           // From file
				convey.So(cfg.ClockStyle, convey.ShouldEqual, "24h") // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TRENDBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("TRENDBOARD_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("TRENDBOARD_TOP_N", "five")
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
	convey.Convey("Given invalid settings", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		cases := map[string]string{
			"TRENDBOARD_ADDR":              "",
			"TRENDBOARD_GATE_POLL_SECONDS": "0",
			"TRENDBOARD_BROADCAST_SECONDS": "-1",
			"TRENDBOARD_TOP_N":             "0",
			"TRENDBOARD_MAX_RESULTS":       "-5",
			"TRENDBOARD_CLOCK_STYLE":       "sundial",
			"TRENDBOARD_LOG_FORMAT":        "xml",
		}

		for key, val := range cases {
			_ = os.Setenv(key, val)
			cfg, err := config.Load(ctx)
			_ = os.Unsetenv(key)

			convey.So(cfg, convey.ShouldBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		}
	})

	convey.Convey("Given a default ranking longer than the result cap", t, func() {
		clearConfigEnvVars()
		_ = os.Setenv("TRENDBOARD_TOP_N", "20")
		_ = os.Setenv("TRENDBOARD_MAX_RESULTS", "10")
		defer clearConfigEnvVars()

		cfg, err := config.Load(context.Background())

		convey.Convey("Then Load rejects it", func() {
			convey.So(cfg, convey.ShouldBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "top_n 20 exceeds max_results 10")
		})
	})

	convey.Convey("Given a default ranking equal to the result cap", t, func() {
		clearConfigEnvVars()
		_ = os.Setenv("TRENDBOARD_TOP_N", "10")
		defer clearConfigEnvVars()

		cfg, err := config.Load(context.Background())

		convey.Convey("Then Load accepts it", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.TopN, convey.ShouldEqual, 10)
		})
	})

	convey.Convey("Given an empty addr", t, func() {
		_ = os.Setenv("TRENDBOARD_ADDR", "")
		defer clearConfigEnvVars()

		_, err := config.Load(context.Background())

		convey.Convey("Then the message names the field", func() {
			convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"TRENDBOARD_CONFIG",
		"TRENDBOARD_ADDR",
		"TRENDBOARD_LOG_LEVEL",
		"TRENDBOARD_LOG_FORMAT",
		"TRENDBOARD_GATE_POLL_SECONDS",
		"TRENDBOARD_BROADCAST_SECONDS",
		"TRENDBOARD_CLOCK_STYLE",
		"TRENDBOARD_TOP_N",
		"TRENDBOARD_MAX_RESULTS",
		"TRENDBOARD_DATASET_FILE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "trendboard-config-*.yaml")
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
