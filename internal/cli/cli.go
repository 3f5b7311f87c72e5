// Package cli implements the command workflows shared by the flowrunner
// binary: loading configuration, wiring the runner, executing paths, and
// archiving reports.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rsmiech/flowrunner"
	"github.com/rsmiech/flowrunner/internal/adapters/file"
	"github.com/rsmiech/flowrunner/internal/adapters/redis"
	"github.com/rsmiech/flowrunner/internal/adapters/yamlfile"
	"github.com/rsmiech/flowrunner/internal/config"
	"github.com/rsmiech/flowrunner/internal/logging"
	"github.com/rsmiech/flowrunner/internal/presentation/report"
	"github.com/rsmiech/flowrunner/pkg/domain"
	"github.com/rsmiech/flowrunner/pkg/persistence/middleware"
	"github.com/rsmiech/flowrunner/pkg/ports"
	"github.com/rsmiech/flowrunner/pkg/registry"
)

// RunOptions contains the configuration for the run command.
type RunOptions struct {
	ConfigFile string
	Definition string
	Paths      string
	Suite      string
	Case       string
	Debug      bool
}

// ErrRunFailed signals that execution finished but at least one case did not
// pass. The command layer maps it to a non-zero exit without an error dump.
var ErrRunFailed = fmt.Errorf("one or more cases failed")

// Execute handles the run command: it resolves the requested cases, runs
// them, renders each report, and archives results per configuration.
// A nil registry stubs every routine, which turns the run into a pure
// model/path consistency check.
func Execute(ctx context.Context, opts RunOptions, reg *registry.Registry) error {
	cfg, err := loadConfig(opts.ConfigFile, &opts)
	if err != nil {
		return err
	}
	logger := createLogger(opts.Debug, cfg.Logger.Level)

	runner, err := buildRunner(opts, reg, logger)
	if err != nil {
		return err
	}

	reports, err := collectReports(ctx, runner, opts, logger)
	if err != nil {
		return err
	}

	renderer := report.NewRenderer(os.Stdout)
	failed := 0
	for _, rep := range reports {
		renderer.Render(rep)
		if !rep.Passed {
			failed++
		}
	}

	if err := archiveReports(ctx, cfg, logger, reports); err != nil {
		return err
	}

	if failed > 0 {
		logger.Warn("run finished with failures", "failed", failed, "total", len(reports))
		return ErrRunFailed
	}
	logger.Info("run finished", "cases", len(reports))
	return nil
}

// loadConfig merges the config file with command line overrides. Flags win.
func loadConfig(configFile string, opts *RunOptions) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if opts.Definition == "" {
		opts.Definition = cfg.Definition
	}
	if opts.Paths == "" {
		opts.Paths = cfg.Paths
	}
	if opts.Definition == "" {
		return nil, fmt.Errorf("no machine definition given (flag --definition or config key 'definition')")
	}
	if opts.Paths == "" {
		return nil, fmt.Errorf("no path file given (flag --paths or config key 'paths')")
	}
	return cfg, nil
}

func buildRunner(opts RunOptions, reg *registry.Registry, logger *slog.Logger) (*flowrunner.Runner, error) {
	model, err := yamlfile.LoadDefinition(opts.Definition)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		reg = StubRegistry(model)
		logger.Info("no routines registered, running with stubs", "model", model.Name)
	}

	runnerOpts := []flowrunner.Option{flowrunner.WithLogger(logger)}
	if opts.Debug {
		runnerOpts = append(runnerOpts, flowrunner.WithLifecycleHooks(DebugHooks(logger)))
	}
	return flowrunner.NewFromModel(model, reg, runnerOpts...)
}

// collectReports resolves and runs the requested scope: one case, one suite,
// or every suite in the path file.
func collectReports(ctx context.Context, runner *flowrunner.Runner, opts RunOptions, logger *slog.Logger) ([]*domain.ResultReport, error) {
	if opts.Case != "" {
		if opts.Suite == "" {
			return nil, fmt.Errorf("--case requires --suite")
		}
		rep, err := runner.RunCase(ctx, opts.Paths, opts.Suite, opts.Case)
		if err != nil {
			return nil, err
		}
		return []*domain.ResultReport{rep}, nil
	}

	if opts.Suite != "" {
		return runner.RunSuite(ctx, opts.Paths, opts.Suite)
	}

	pf, err := yamlfile.LoadPaths(opts.Paths, yamlfile.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	var reports []*domain.ResultReport
	for _, suite := range pf.Suites() {
		suiteReports, err := runner.RunSuite(ctx, opts.Paths, suite)
		if err != nil {
			return nil, err
		}
		reports = append(reports, suiteReports...)
	}
	return reports, nil
}

func archiveReports(ctx context.Context, cfg *config.Config, logger *slog.Logger, reports []*domain.ResultReport) error {
	store, closeStore, err := NewReportStore(cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return nil
	}
	defer closeStore()

	stamp := time.Now().UTC().Format("20060102T150405Z")
	for _, rep := range reports {
		runID := fmt.Sprintf("%s-%s-%s-%s", rep.Model, rep.Suite, rep.Case, stamp)
		if err := store.Save(ctx, runID, rep); err != nil {
			return fmt.Errorf("failed to archive report %s: %w", runID, err)
		}
		logger.Debug("report archived", "run_id", runID, "store", cfg.Reports.Store)
	}
	return nil
}

// NewReportStore builds the configured report store, wrapped with the
// configured redaction patterns. A "none" store returns nil without error.
func NewReportStore(cfg *config.Config) (ports.ReportStore, func(), error) {
	var (
		store      ports.ReportStore
		closeStore = func() {}
	)
	switch cfg.Reports.Store {
	case "none", "":
		return nil, nil, nil
	case "file":
		store = file.NewStore(cfg.Reports.Dir)
	case "redis":
		redisStore := redis.New(
			cfg.Reports.Redis.Addr,
			cfg.Reports.Redis.Password,
			cfg.Reports.Redis.DB,
			redis.WithPrefix(cfg.Reports.Redis.Prefix),
			redis.WithTTL(cfg.Reports.TTL),
		)
		store = redisStore
		closeStore = func() { _ = redisStore.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown report store %q", cfg.Reports.Store)
	}

	if len(cfg.Reports.Redact) > 0 {
		store = middleware.NewRedactMiddleware(cfg.Reports.Redact)(store)
	}
	return store, closeStore, nil
}

// createLogger configures the application logger. Debug mode overrides the
// configured level.
func createLogger(debug bool, level string) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(logging.ParseLevel(level))
}
