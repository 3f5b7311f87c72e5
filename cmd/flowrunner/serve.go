package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rsmiech/flowrunner"
	httpAdapter "github.com/rsmiech/flowrunner/internal/adapters/http"
	"github.com/rsmiech/flowrunner/internal/adapters/yamlfile"
	"github.com/rsmiech/flowrunner/internal/cli"
	"github.com/rsmiech/flowrunner/internal/config"
	"github.com/rsmiech/flowrunner/internal/logging"
	"github.com/rsmiech/flowrunner/pkg/observability"
	"github.com/rsmiech/flowrunner/pkg/persistence/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the model and path execution over a JSON API, with Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Listen port (overrides config)")
}

func runServe(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if definition, _ := cmd.Flags().GetString("definition"); definition != "" {
		cfg.Definition = definition
	}
	if paths, _ := cmd.Flags().GetString("paths"); paths != "" {
		cfg.Paths = paths
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if cfg.Definition == "" {
		return fmt.Errorf("no machine definition given (flag --definition or config key 'definition')")
	}

	level := logging.ParseLevel(cfg.Logger.Level)
	if debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	model, err := yamlfile.LoadDefinition(cfg.Definition)
	if err != nil {
		return err
	}

	promReg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promReg)

	runner, err := flowrunner.NewFromModel(model, cli.StubRegistry(model),
		flowrunner.WithLogger(logger),
		flowrunner.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	store, closeStore, err := cli.NewReportStore(cfg)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}
	if store != nil {
		store = middleware.NewLoggingMiddleware(logger)(store)
	}

	serverOpts := []httpAdapter.ServerOption{
		httpAdapter.WithServerLogger(logger),
		httpAdapter.WithMetricsGatherer(promReg),
	}
	if store != nil {
		serverOpts = append(serverOpts, httpAdapter.WithReportStore(store))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      httpAdapter.NewServer(runner, cfg.Paths, serverOpts...).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "model", model.Name)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutdown started", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}
	return nil
}
