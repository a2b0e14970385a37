package choregrapher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/choregrapher/internal/ctxlog"
	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/specialistvlad/choregrapher/internal/focus"
	"github.com/specialistvlad/choregrapher/internal/functor"
	"github.com/specialistvlad/choregrapher/internal/process"
	"github.com/specialistvlad/choregrapher/internal/schedule"
)

// StepError reports the process that aborted a step. Writes of earlier waves
// and of earlier processes of the same wave are kept.
type StepError struct {
	Namespace string
	Vector    schedule.Vector
	Process   string
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("namespace %q: wave %s: process %q: %v", e.Namespace, e.Vector, e.Process, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// boundWave is a planned wave with the bindings captured at step start.
type boundWave struct {
	vector   schedule.Vector
	functors []*functor.Functor
	bindings []*functor.Binding
}

// Run executes one simulated step of ns: the focus is recomputed from the
// bound store and filter, then every wave runs in order. The first failing
// process aborts the step with a *StepError.
//
// The plan, binding and filter are captured when the step starts. Processes
// may call Register, Bind and SetFilter on the scheduler; the changes apply
// from the next step. A Run of ns while a step of ns is running fails with
// ErrStepInProgress.
func (c *Choregrapher) Run(ctx context.Context, ns string) error {
	c.mu.RLock()
	st, ok := c.namespaces[ns]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}

	if !st.runMu.TryLock() {
		return fmt.Errorf("namespace %q: %w", ns, ErrStepInProgress)
	}
	defer st.runMu.Unlock()

	c.mu.RLock()
	binding, filter := st.binding, st.filter
	plan := make([]boundWave, len(st.plan))
	for i, w := range st.plan {
		bw := boundWave{vector: w.vector, functors: w.functors, bindings: make([]*functor.Binding, len(w.functors))}
		for j, f := range w.functors {
			bw.bindings[j] = f.Binding()
		}
		plan[i] = bw
	}
	c.mu.RUnlock()

	ctx = ctxlog.With(ctx, "namespace", ns)
	logger := ctxlog.FromContext(ctx)
	if binding == nil {
		return fmt.Errorf("namespace %q: %w", ns, process.ErrMissingBinding)
	}
	store := binding.Store

	start := time.Now()
	ids, err := focus.Elements(store, filter)
	if err != nil {
		err = fmt.Errorf("namespace %q: focus: %w", ns, err)
		c.observer.ObserveStep(ns, 0, time.Since(start), err)
		return err
	}
	store.SetFocus(ids)

	err = c.execute(ctx, ns, plan, ids)
	c.observer.ObserveStep(ns, len(ids), time.Since(start), err)
	if err != nil {
		logger.Error("Step aborted.", "error", err)
		return err
	}
	logger.Debug("Step finished.", "waves", len(plan), "focus", len(ids), "duration", time.Since(start))
	return nil
}

func (c *Choregrapher) execute(ctx context.Context, ns string, plan []boundWave, ids []datastore.ElementID) error {
	logger := ctxlog.FromContext(ctx)
	for _, w := range plan {
		if err := ctx.Err(); err != nil {
			return &StepError{Namespace: ns, Vector: w.vector, Err: err}
		}
		for i, f := range w.functors {
			start := time.Now()
			err := f.ExecuteBound(w.bindings[i], ids)
			c.observer.ObserveProcess(ns, f.Name(), f.Mode(), time.Since(start), err)
			if err != nil {
				return &StepError{Namespace: ns, Vector: w.vector, Process: f.Name(), Err: err}
			}
			logger.Debug("Process executed.", "process", f.Name(), "wave", w.vector.String())
		}
	}
	return nil
}

// IsStepError reports whether err carries a *StepError and returns it.
func IsStepError(err error) (*StepError, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
