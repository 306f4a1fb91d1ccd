package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/tapcheck/internal/adapters/curvefile"
	"github.com/okian/tapcheck/internal/adapters/http/api"
	"github.com/okian/tapcheck/internal/adapters/http/swagger"
	service "github.com/okian/tapcheck/internal/app"
	"github.com/okian/tapcheck/internal/config"
	"github.com/okian/tapcheck/pkg/logger"
	"github.com/okian/tapcheck/pkg/metrics"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

var errTapInvalid = errors.New("tap rejected")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tapcheck",
		Short: "Classify load cell probe taps",
		Long: `tapcheck decides whether a segmented load cell tap is a mechanically
valid contact and tags the reasons when it is not.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "Path to YAML config file (overrides TAPCHECK_CONFIG)")

	root.AddCommand(serveCmd())
	root.AddCommand(checkCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the classification HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, svc, err := setup(ctx, cmd, os.Stdout)
			if err != nil {
				return err
			}
			log := logger.Named("server")

			srv := newHTTPServer(ctx, cfg, svc)
			errCh := make(chan error, 1)
			go func() {
				log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("classifier", svc.ClassifierName()))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server: %w", err)
				}
			case <-ctx.Done():
			}
			log.Info(ctx, "shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error(ctx, "server shutdown failed", logger.Error(err))
				return err
			}
			log.Info(ctx, "server stopped")
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	var (
		curvePath     string
		failOnInvalid bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Classify a single curve summary read from a file",
		Long: `Classify a single curve summary read from a YAML or JSON file and print
the verdict as JSON.

Examples:
  tapcheck check --file tap.yaml
  tapcheck check --file tap.json --fail-on-invalid`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			// Logs go to stderr so stdout carries only the verdict.
			_, svc, err := setup(ctx, cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			c, err := curvefile.Load(curvePath)
			if err != nil {
				return err
			}
			v := svc.Classify(ctx, c)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(verdictOutput{
				ID:        v.TapID,
				IsValid:   v.Valid,
				Anomalies: c.AnomalyStrings(),
				Skipped:   v.Skipped,
			}); err != nil {
				return fmt.Errorf("write verdict: %w", err)
			}
			if failOnInvalid && !v.Valid {
				return errTapInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&curvePath, "file", "f", "", "Curve summary file (YAML or JSON)")
	cmd.Flags().BoolVar(&failOnInvalid, "fail-on-invalid", false, "Exit non-zero when the tap is rejected")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type verdictOutput struct {
	ID        string   `json:"id"`
	IsValid   bool     `json:"is_valid"`
	Anomalies []string `json:"anomalies"`
	Skipped   bool     `json:"skipped"`
}

// setup initializes logging, loads configuration and builds the service.
func setup(ctx context.Context, cmd *cobra.Command, logOut io.Writer) (*config.Config, *service.Service, error) {
	if err := logger.InitWriter(logOut); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(config.EnvFile)
	}
	cfg, err := config.LoadFile(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	metrics.SetEnabled(cfg.MetricsEnabled)

	svc, err := service.New(cfg.Classifier, cfg.Tolerances, service.WithLogger(logger.Named("classifier")))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build classifier: %w", err)
	}
	return cfg, svc, nil
}

func newHTTPServer(ctx context.Context, cfg *config.Config, svc *service.Service) *http.Server {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc).Register(ctx, mux)
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
