package flowrunner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rsmiech/flowrunner/internal/adapters/yamlfile"
	"github.com/rsmiech/flowrunner/internal/logging"
	"github.com/rsmiech/flowrunner/internal/runtime"
	"github.com/rsmiech/flowrunner/pkg/domain"
	"github.com/rsmiech/flowrunner/pkg/observability"
	"github.com/rsmiech/flowrunner/pkg/registry"
)

// Version is the library and CLI release version.
const Version = "0.1.0"

// Runner is the high-level entry point for the flowrunner library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Runner struct {
	engine  *runtime.Engine
	model   *domain.Model
	logger  *slog.Logger
	hooks   []domain.LifecycleHooks
	metrics *observability.Metrics
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. May be given more than
// once; hook sets fire in registration order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = append(r.hooks, hooks)
	}
}

// WithMetrics wires Prometheus instrumentation into the run lifecycle.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// New loads a machine definition file and binds it to the given routine
// registry. Structural problems in the definition and unresolved routine
// names both fail construction; a Runner that exists can execute paths.
func New(definitionFile string, reg *registry.Registry, opts ...Option) (*Runner, error) {
	model, err := yamlfile.LoadDefinition(definitionFile)
	if err != nil {
		return nil, err
	}
	return NewFromModel(model, reg, opts...)
}

// NewFromModel builds a Runner around an already compiled model.
func NewFromModel(model *domain.Model, reg *registry.Registry, opts ...Option) (*Runner, error) {
	r := &Runner{model: model}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	r.logger = r.logger.With("model", model.Name)

	hooks := r.hooks
	if r.metrics != nil {
		hooks = append([]domain.LifecycleHooks{r.metrics.Hooks()}, hooks...)
	}

	engine, err := runtime.NewEngine(model, reg,
		runtime.WithLogger(r.logger),
		runtime.WithLifecycleHooks(domain.MergeHooks(hooks...)),
	)
	if err != nil {
		return nil, err
	}
	r.engine = engine

	return r, nil
}

// Model returns the compiled machine model.
func (r *Runner) Model() *domain.Model {
	return r.model
}

// ValidatePath statically checks a path against the model without running
// any routine: unique step ids, and every trigger known to the machine.
func (r *Runner) ValidatePath(path *domain.PathDefinition) error {
	return r.engine.ValidatePath(path)
}

// Run executes one path and returns its report. Structural path errors fail
// before the first step; runtime failures (bad triggers, failed validations,
// transition errors) are recorded in the report instead.
func (r *Runner) Run(ctx context.Context, path *domain.PathDefinition) (*domain.ResultReport, error) {
	report, err := r.engine.Run(ctx, path)
	if err != nil {
		return nil, err
	}
	if r.metrics != nil {
		r.metrics.ObserveRun(report)
	}
	return report, nil
}

// RunCase resolves suite:case from a path file, inheritance included, and
// executes it.
func (r *Runner) RunCase(ctx context.Context, pathsFile, suite, name string) (*domain.ResultReport, error) {
	pf, err := yamlfile.LoadPaths(pathsFile, yamlfile.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}
	path, err := pf.Resolve(suite, name)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, path)
}

// RunSuite executes every case of a suite, in lexical case order, and
// returns the reports. Execution continues past failing cases; a resolution
// error aborts the sweep.
func (r *Runner) RunSuite(ctx context.Context, pathsFile, suite string) ([]*domain.ResultReport, error) {
	pf, err := yamlfile.LoadPaths(pathsFile, yamlfile.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}

	cases := pf.Cases(suite)
	if len(cases) == 0 {
		return nil, fmt.Errorf("suite %q has no cases in %s", suite, pathsFile)
	}

	reports := make([]*domain.ResultReport, 0, len(cases))
	for _, name := range cases {
		path, err := pf.Resolve(suite, name)
		if err != nil {
			return nil, err
		}
		report, err := r.Run(ctx, path)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
