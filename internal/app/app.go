package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/specialistvlad/choregrapher/internal/choregrapher"
	"github.com/specialistvlad/choregrapher/internal/config"
	"github.com/specialistvlad/choregrapher/internal/ctxlog"
	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/specialistvlad/choregrapher/internal/observability"
	"github.com/specialistvlad/choregrapher/internal/process"
	"github.com/specialistvlad/choregrapher/internal/schedule"
)

// instance is one configured model instance wired into the scheduler.
type instance struct {
	namespace string
	model     string
	inst      process.Instance
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	ctx        context.Context
	logger     *slog.Logger
	config     *Config
	steps      int
	chor       *choregrapher.Choregrapher
	metrics    *observability.Metrics
	store      *datastore.Store
	instances  []instance
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It loads the
// configuration with loader, registers and binds every selected model
// instance and returns an App ready to Run. models defaults to every
// compiled-in model.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, models ...Model) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW).With("run_id", uuid.NewString())
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfgModel, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfgModel.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	resolved, err := cfgModel.Resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("Configuration loaded.", "schema", resolved.Schema.String(), "collision", resolved.Collision.String(), "store", resolved.StoreKind.String())

	if len(models) == 0 {
		models = coreModels
	}
	byName := make(map[string]Model, len(models))
	for _, m := range models {
		byName[m.Name()] = m
	}

	selected, err := selectInstances(cfgModel, cfg.Models)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics()
	chor, err := choregrapher.New(
		choregrapher.WithSchema(resolved.Schema),
		choregrapher.WithPriority(resolved.Priority),
		choregrapher.WithCollisionPolicy(resolved.Collision),
		choregrapher.WithObserver(metrics),
		choregrapher.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	a := &App{
		outW:    outW,
		ctx:     ctx,
		logger:  logger,
		config:  cfg,
		steps:   resolved.Steps,
		chor:    chor,
		metrics: metrics,
		store:   datastore.New(datastore.WithKind(resolved.StoreKind)),
	}
	if cfg.Steps > 0 {
		a.steps = cfg.Steps
	}

	for _, mc := range selected {
		m, ok := byName[mc.Model]
		if !ok {
			return nil, fmt.Errorf("model %q: unknown model type %q (available: %s)", mc.Name, mc.Model, strings.Join(modelNames(models), ", "))
		}
		if err := a.wire(m, mc); err != nil {
			return nil, fmt.Errorf("model %q: %w", mc.Name, err)
		}
	}
	logger.Debug("All model instances wired.", "count", len(a.instances))
	return a, nil
}

// wire registers, instantiates and binds one model instance.
func (a *App) wire(m Model, mc *config.ModelConfig) error {
	ns := mc.Namespace()
	dataName := config.DataNameOf(mc)

	if err := m.Register(a.chor, ns); err != nil {
		return err
	}
	inst, err := m.NewInstance(ns, dataName, a.store, mc.Params)
	if err != nil {
		return err
	}
	if err := a.chor.Bind(inst, dataName, mc.Filter); err != nil {
		return err
	}
	if err := a.chor.Registry().CheckAttributes(ns, inst, a.store); err != nil {
		a.logger.Warn("Attribute check failed; processes will fail on first access.", "namespace", ns, "error", err)
	}

	a.instances = append(a.instances, instance{namespace: ns, model: m.Name(), inst: inst})
	a.logger.Debug("Model instance wired.", "namespace", ns, "model", m.Name(), "data", dataName, "filtered", mc.Filter != nil)
	return nil
}

// selectInstances returns the enabled instances, restricted to names when
// any are given.
func selectInstances(m *config.Model, names []string) ([]*config.ModelConfig, error) {
	enabled := m.Enabled()
	if len(names) == 0 {
		return enabled, nil
	}

	var out []*config.ModelConfig
	var errs []error
	for _, name := range names {
		i := slices.IndexFunc(enabled, func(mc *config.ModelConfig) bool { return mc.Name == name })
		if i < 0 {
			errs = append(errs, fmt.Errorf("model instance %q is not defined or disabled", name))
			continue
		}
		out = append(out, enabled[i])
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func modelNames(models []Model) []string {
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name()
	}
	slices.Sort(names)
	return names
}

// NamespaceSchedule is the wave order of one model instance.
type NamespaceSchedule struct {
	Namespace string
	Model     string
	Waves     []schedule.Wave
}

// Schedule returns the waves of every wired instance in run order.
func (a *App) Schedule() []NamespaceSchedule {
	out := make([]NamespaceSchedule, len(a.instances))
	for i, in := range a.instances {
		out[i] = NamespaceSchedule{Namespace: in.namespace, Model: in.model, Waves: a.chor.Waves(in.namespace)}
	}
	return out
}

// Choregrapher returns the application's scheduler. This is primarily for testing.
func (a *App) Choregrapher() *choregrapher.Choregrapher {
	return a.chor
}

// Store returns the data store shared by every instance.
func (a *App) Store() *datastore.Store {
	return a.store
}

// Instance returns the model instance of namespace ns.
func (a *App) Instance(ns string) (process.Instance, bool) {
	for _, in := range a.instances {
		if in.namespace == ns {
			return in.inst, true
		}
	}
	return nil, false
}

// Metrics returns the metrics recorded by the scheduler.
func (a *App) Metrics() *observability.Metrics {
	return a.metrics
}

// Steps returns the number of steps Run executes.
func (a *App) Steps() int {
	return a.steps
}
