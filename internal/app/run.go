package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/choregrapher/internal/ctxlog"
)

// Run executes the configured number of steps. Each step runs every model
// instance in configuration order; the first failure aborts the run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	a.healthCheckServer()
	defer a.closeHealthCheckServer()

	if len(a.instances) == 0 {
		a.logger.Warn("No model instances wired, execution not required.")
		return nil
	}

	a.logger.Info("🚀 Starting simulation.", "steps", a.steps, "instances", len(a.instances))
	for step := 1; step <= a.steps; step++ {
		for _, in := range a.instances {
			if err := a.chor.Run(ctx, in.namespace); err != nil {
				return fmt.Errorf("step %d: %w", step, err)
			}
		}
		a.logger.Debug("Step completed.", "step", step, "elements", len(a.store.IDs()))
	}
	a.logger.Info("🏁 Simulation finished.", "steps", a.steps, "elements", len(a.store.IDs()))
	return nil
}
