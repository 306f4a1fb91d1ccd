package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/tapcheck/internal/config"
	"github.com/okian/tapcheck/internal/domain/classifier"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9081")
				convey.So(cfg.Tolerances.MinDecompressionForcePercentage, convey.ShouldEqual, 66.66)
				convey.So(cfg.Tolerances.MaxBaselineForceChangePercentage, convey.ShouldEqual, 20.0)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TAPCHECK_ADDR", ":8080")
			_ = os.Setenv("TAPCHECK_LOG_LEVEL", "debug")
			_ = os.Setenv("TAPCHECK_METRICS_ENABLED", "false")
			_ = os.Setenv("TAPCHECK_MIN_DECOMPRESSION_FORCE_PERCENTAGE", "50")
			_ = os.Setenv("TAPCHECK_MAX_BASELINE_FORCE_CHANGE_PERCENTAGE", "10.5")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.Tolerances.MinDecompressionForcePercentage, convey.ShouldEqual, 50.0)
				convey.So(cfg.Tolerances.MaxBaselineForceChangePercentage, convey.ShouldEqual, 10.5)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeConfigFile(t, `
addr: ":9090"
classifier: simple
min_decompression_force_percentage: 80
max_baseline_force_change_percentage: 25
`)
			_ = os.Setenv("TAPCHECK_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Classifier, convey.ShouldEqual, classifier.SimpleName)
				convey.So(cfg.Tolerances.MinDecompressionForcePercentage, convey.ShouldEqual, 80.0)
				convey.So(cfg.Tolerances.MaxBaselineForceChangePercentage, convey.ShouldEqual, 25.0)
			})

			convey.Convey("And environment variables override the file", func() {
				_ = os.Setenv("TAPCHECK_MAX_BASELINE_FORCE_CHANGE_PERCENTAGE", "30")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Tolerances.MinDecompressionForcePercentage, convey.ShouldEqual, 80.0)
				convey.So(cfg.Tolerances.MaxBaselineForceChangePercentage, convey.ShouldEqual, 30.0)
			})
		})

		convey.Convey("When a tolerance is out of range", func() {
			path := writeConfigFile(t, "min_decompression_force_percentage: 19.9\n")
			cfg, err := config.LoadFile(ctx, path)

			convey.Convey("Then loading fails with a config error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "min_decompression_force_percentage")
			})
		})

		convey.Convey("When loading config with invalid YAML", func() {
			path := writeConfigFile(t, `invalid: yaml: content: [`)
			cfg, err := config.LoadFile(ctx, path)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with a non-existent file", func() {
			cfg, err := config.LoadFile(ctx, filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tapcheck.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearConfigEnvVars() {
	for _, name := range []string{
		"TAPCHECK_CONFIG",
		"TAPCHECK_ADDR",
		"TAPCHECK_LOG_LEVEL",
		"TAPCHECK_CLASSIFIER",
		"TAPCHECK_METRICS_ENABLED",
		"TAPCHECK_MIN_DECOMPRESSION_FORCE_PERCENTAGE",
		"TAPCHECK_MAX_BASELINE_FORCE_CHANGE_PERCENTAGE",
	} {
		_ = os.Unsetenv(name)
	}
}
