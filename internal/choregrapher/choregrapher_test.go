package choregrapher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/choregrapher/internal/category"
	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/specialistvlad/choregrapher/internal/focus"
	"github.com/specialistvlad/choregrapher/internal/process"
	"github.com/specialistvlad/choregrapher/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const ns = "roots"

func subtract(c *process.Call) (cty.Value, error) {
	return c.Arg(0).Subtract(c.Arg(1)), nil
}

func sum(c *process.Call) (cty.Value, error) {
	total := cty.Zero
	for _, v := range c.Array(0) {
		total = total.Add(v)
	}
	return total, nil
}

func noop(*process.Call) (cty.Value, error) { return cty.NilVal, nil }

func desc(name string, inputs ...string) process.Descriptor {
	return process.Descriptor{Identifier: name, Inputs: inputs, Fn: subtract}
}

func newMinimal(t *testing.T, opts ...Option) *Choregrapher {
	t.Helper()
	c, err := New(append([]Option{WithSchema(category.SchemaMinimal)}, opts...)...)
	require.NoError(t, err)
	return c
}

// newScenarioStore builds three elements labelled A/X, B/X and A/Y with
// a = {5,6,7} and b = 2 everywhere.
func newScenarioStore() (*process.BaseInstance, *datastore.Store) {
	store := datastore.New()
	store.AddElements(1, 2, 3)
	for id, lt := range map[datastore.ElementID][2]string{1: {"A", "X"}, 2: {"B", "X"}, 3: {"A", "Y"}} {
		store.Set(datastore.LabelAttribute, id, cty.StringVal(lt[0]))
		store.Set(datastore.TypeAttribute, id, cty.StringVal(lt[1]))
		store.Set("a", id, datastore.Number(float64(id)+4))
		store.Set("b", id, datastore.Number(2))
	}
	inst := process.NewBaseInstance(ns)
	inst.AttachStore("props", store)
	return inst, store
}

func floats(t *testing.T, s *datastore.Store, name string) map[datastore.ElementID]float64 {
	t.Helper()
	a, ok := s.Array(name)
	require.True(t, ok, "array %q should exist", name)
	got, err := a.Floats()
	require.NoError(t, err)
	return got
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("Success: defaults", func(t *testing.T) {
		t.Parallel()
		c, err := New()
		require.NoError(t, err)
		assert.Equal(t, category.SchemaExtended, c.Schema())
		assert.Equal(t, schedule.LastWins, c.Policy())
		assert.Equal(t, category.SchemaExtended.DefaultPriority(), c.Priority())
		assert.Empty(t, c.Namespaces())
	})

	t.Run("Failure: priority outside schema", func(t *testing.T) {
		t.Parallel()
		_, err := New(WithSchema(category.SchemaMinimal), WithPriority(category.SchemaExtended.DefaultPriority()))
		require.ErrorIs(t, err, category.ErrUnknownCategory)
	})
}

func TestRegister_WaveOrder(t *testing.T) {
	t.Parallel()

	c := newMinimal(t)
	table := []Entry{
		{Category: category.Actual, Descriptor: desc("growth", "a", "b")},
		{Category: category.State, Descriptor: desc("conc", "a", "b")},
		{Category: category.Rate, Descriptor: desc("_flux", "a", "b")},
		{Category: category.Potential, Descriptor: desc("pot", "a", "b")},
	}
	require.NoError(t, c.RegisterTable(ns, table))

	want := []schedule.Wave{
		{Vector: schedule.Vector{0, 0}, Names: []string{"flux", "pot"}},
		{Vector: schedule.Vector{0, 1}, Names: []string{"growth"}},
		{Vector: schedule.Vector{1, 0}, Names: []string{"conc"}},
	}
	if diff := cmp.Diff(want, c.Waves(ns)); diff != "" {
		t.Errorf("waves mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{ns}, c.Namespaces())
	assert.Nil(t, c.Waves("other"), "namespaces are isolated")
}

func TestRegister_Idempotent(t *testing.T) {
	t.Parallel()

	c := newMinimal(t)
	first, err := c.Register(ns, category.Rate, desc("_flux", "a", "b"))
	require.NoError(t, err)
	second, err := c.Register(ns, category.Rate, desc("_flux", "a", "b"))
	require.NoError(t, err)

	assert.Same(t, first, second)
	require.Len(t, c.Waves(ns), 1)
	assert.Equal(t, []string{"flux"}, c.Waves(ns)[0].Names)

	f, ok := c.Process(ns, "flux")
	require.True(t, ok)
	assert.Equal(t, []category.Category{category.Rate}, f.Categories())
}

func TestRegister_Failures(t *testing.T) {
	t.Parallel()

	t.Run("Failure: category outside schema", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t)
		_, err := c.Register(ns, category.TotalRate, desc("total", "a"))
		require.ErrorIs(t, err, category.ErrUnknownCategory)
		assert.Empty(t, c.Namespaces())
	})

	t.Run("Failure: table stops at the first bad row", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t)
		err := c.RegisterTable(ns, []Entry{
			{Category: category.Rate, Descriptor: desc("flux", "a", "b")},
			{Category: category.State, Descriptor: process.Descriptor{Identifier: "broken", Inputs: []string{"a"}}},
			{Category: category.State, Descriptor: desc("conc", "a", "b")},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "registration 1")
		_, ok := c.Process(ns, "flux")
		assert.True(t, ok)
		_, ok = c.Process(ns, "conc")
		assert.False(t, ok)
	})
}

func TestRun_ElementwiseWithFilterChange(t *testing.T) {
	t.Parallel()

	c := newMinimal(t)
	_, err := c.Register(ns, category.Rate, desc("_rate", "a", "b"))
	require.NoError(t, err)

	inst, store := newScenarioStore()
	store.Declare("rate")
	require.NoError(t, c.Bind(inst, "props", &focus.Filter{Label: []string{"A"}, Type: []string{"X"}}))

	ctx := context.Background()
	require.NoError(t, c.Run(ctx, ns))
	assert.Equal(t, []datastore.ElementID{1}, store.Focus())
	assert.Equal(t, map[datastore.ElementID]float64{1: 3}, floats(t, store, "rate"))

	require.NoError(t, c.SetFilter(ns, &focus.Filter{Label: []string{"A", "B"}, Type: []string{"X", "Y"}}))
	require.NoError(t, c.Run(ctx, ns))
	assert.Equal(t, []datastore.ElementID{1, 2, 3}, store.Focus())
	assert.Equal(t, map[datastore.ElementID]float64{1: 3, 2: 4, 3: 5}, floats(t, store, "rate"))
	assert.Equal(t, &focus.Filter{Label: []string{"A", "B"}, Type: []string{"X", "Y"}}, c.Filter(ns))
}

func TestRun_AggregateIgnoresFilter(t *testing.T) {
	t.Parallel()

	c, err := New()
	require.NoError(t, err)
	_, err = c.Register(ns, category.TotalRate, process.Descriptor{Identifier: "_total_a", Inputs: []string{"a"}, Fn: sum})
	require.NoError(t, err)

	inst, store := newScenarioStore()
	store.Declare("total_a")
	require.NoError(t, c.Bind(inst, "props", &focus.Filter{Label: []string{"A"}, Type: []string{"X"}}))
	require.NoError(t, c.Run(context.Background(), ns))

	assert.Equal(t, map[datastore.ElementID]float64{datastore.TotalKey: 18}, floats(t, store, "total_a"))
}

func TestRun_InstanceModeOncePerStep(t *testing.T) {
	t.Parallel()

	c, err := New()
	require.NoError(t, err)
	calls := 0
	_, err = c.Register(ns, category.StepInit, process.Descriptor{
		Identifier: "_step_init",
		Fn: func(*process.Call) (cty.Value, error) {
			calls++
			return cty.NilVal, nil
		},
	})
	require.NoError(t, err)

	inst, store := newScenarioStore()
	require.NoError(t, c.Bind(inst, "props", nil))
	for range 3 {
		require.NoError(t, c.Run(context.Background(), ns))
	}
	assert.Equal(t, 3, calls)
	_, ok := store.Array("step_init")
	assert.False(t, ok)
}

func TestRun_FaultKeepsEarlierWrites(t *testing.T) {
	t.Parallel()

	c := newMinimal(t)
	require.NoError(t, c.RegisterTable(ns, []Entry{
		{Category: category.Rate, Descriptor: desc("rate", "a", "b")},
		{Category: category.State, Descriptor: desc("conc", "rate", "missing")},
	}))

	inst, store := newScenarioStore()
	store.Declare("rate", "conc")
	require.NoError(t, c.Bind(inst, "props", nil))

	err := c.Run(context.Background(), ns)
	require.ErrorIs(t, err, process.ErrUnknownAttribute)

	se, ok := IsStepError(err)
	require.True(t, ok)
	assert.Equal(t, ns, se.Namespace)
	assert.Equal(t, "conc", se.Process)
	assert.Equal(t, schedule.Vector{1, 0}, se.Vector)

	assert.Equal(t, map[datastore.ElementID]float64{1: 3, 2: 4, 3: 5}, floats(t, store, "rate"),
		"the earlier wave's writes remain after the fault")
	assert.Empty(t, floats(t, store, "conc"))
}

func TestRun_Failures(t *testing.T) {
	t.Parallel()

	t.Run("Failure: unknown namespace", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t)
		require.ErrorIs(t, c.Run(context.Background(), "nobody"), ErrUnknownNamespace)
	})

	t.Run("Failure: run before bind", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t)
		_, err := c.Register(ns, category.Rate, desc("rate", "a", "b"))
		require.NoError(t, err)
		require.ErrorIs(t, c.Run(context.Background(), ns), process.ErrMissingBinding)
	})

	t.Run("Failure: process registered after bind stays unbound", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t)
		_, err := c.Register(ns, category.Rate, desc("rate", "a", "b"))
		require.NoError(t, err)
		inst, store := newScenarioStore()
		store.Declare("rate", "late")
		require.NoError(t, c.Bind(inst, "props", nil))

		_, err = c.Register(ns, category.State, desc("late", "a", "b"))
		require.NoError(t, err)

		err = c.Run(context.Background(), ns)
		require.ErrorIs(t, err, process.ErrMissingBinding)
		se, ok := IsStepError(err)
		require.True(t, ok)
		assert.Equal(t, "late", se.Process)

		require.NoError(t, c.Bind(inst, "props", nil))
		require.NoError(t, c.Run(context.Background(), ns))
	})

	t.Run("Failure: cancelled context", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t)
		_, err := c.Register(ns, category.Rate, desc("rate", "a", "b"))
		require.NoError(t, err)
		inst, store := newScenarioStore()
		store.Declare("rate")
		require.NoError(t, c.Bind(inst, "props", nil))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, c.Run(ctx, ns), context.Canceled)
	})

	t.Run("Failure: filter over missing label array", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t)
		_, err := c.Register(ns, category.Rate, desc("rate", "a", "b"))
		require.NoError(t, err)
		store := datastore.New()
		store.AddElements(1)
		inst := process.NewBaseInstance(ns)
		inst.AttachStore("props", store)
		require.NoError(t, c.Bind(inst, "props", &focus.Filter{Label: []string{"A"}, Type: []string{"X"}}))
		require.ErrorIs(t, c.Run(context.Background(), ns), process.ErrUnknownAttribute)
	})
}

func TestBind_Failures(t *testing.T) {
	t.Parallel()

	c := newMinimal(t)
	_, err := c.Register(ns, category.Rate, desc("rate", "a", "b"))
	require.NoError(t, err)
	inst, _ := newScenarioStore()

	require.ErrorIs(t, c.Bind(inst, "nope", nil), process.ErrUnknownAttribute)
	require.ErrorIs(t, c.Bind(inst, "props", &focus.Filter{Label: []string{"A"}}), focus.ErrInvalidFilter)
	require.ErrorIs(t, c.SetFilter(ns, &focus.Filter{Type: []string{"X"}}), focus.ErrInvalidFilter)
	require.ErrorIs(t, c.SetFilter("nobody", nil), ErrUnknownNamespace)

	other := process.NewBaseInstance("nobody")
	other.AttachStore("props", datastore.New())
	require.ErrorIs(t, c.Bind(other, "props", nil), ErrUnknownNamespace)
}

func TestBind_ReplacesPreviousBinding(t *testing.T) {
	t.Parallel()

	c := newMinimal(t)
	_, err := c.Register(ns, category.Rate, desc("rate", "a", "b"))
	require.NoError(t, err)

	firstInst, firstStore := newScenarioStore()
	secondInst, secondStore := newScenarioStore()
	firstStore.Declare("rate")
	secondStore.Declare("rate")

	require.NoError(t, c.Bind(firstInst, "props", nil))
	require.NoError(t, c.Bind(secondInst, "props", nil))
	require.NoError(t, c.Run(context.Background(), ns))

	assert.Empty(t, floats(t, firstStore, "rate"))
	assert.Len(t, floats(t, secondStore, "rate"), 3)
}

func TestConfigurePriority_StaleUntilRebuild(t *testing.T) {
	t.Parallel()

	c := newMinimal(t)
	require.NoError(t, c.RegisterTable(ns, []Entry{
		{Category: category.Rate, Descriptor: desc("flux", "a", "b")},
		{Category: category.State, Descriptor: desc("conc", "a", "b")},
	}))
	before := c.Waves(ns)

	swapped, err := category.ParsePriority([][]string{{"state", "rate", "deficit"}, {"potential", "actual", "segmentation"}})
	require.NoError(t, err)
	require.NoError(t, c.ConfigurePriority(swapped))
	assert.Equal(t, swapped, c.Priority())

	if diff := cmp.Diff(before, c.Waves(ns)); diff != "" {
		t.Errorf("configuring the priority must not rebuild (-before +after):\n%s", diff)
	}

	require.NoError(t, c.Rebuild(ns))
	want := []schedule.Wave{
		{Vector: schedule.Vector{0, 0}, Names: []string{"conc"}},
		{Vector: schedule.Vector{1, 0}, Names: []string{"flux"}},
	}
	if diff := cmp.Diff(want, c.Waves(ns)); diff != "" {
		t.Errorf("waves mismatch (-want +got):\n%s", diff)
	}

	require.ErrorIs(t, c.Rebuild("nobody"), ErrUnknownNamespace)

	bad, err := category.ParsePriority([][]string{{"rate", "totalrate"}})
	require.NoError(t, err)
	require.ErrorIs(t, c.ConfigurePriority(bad), category.ErrUnknownCategory)
}

func TestConfigurePriority_MissingCategoryRanksFirst(t *testing.T) {
	t.Parallel()

	c := newMinimal(t)
	p, err := category.ParsePriority([][]string{{"rate", "state"}})
	require.NoError(t, err)
	require.NoError(t, c.ConfigurePriority(p))

	require.NoError(t, c.RegisterTable(ns, []Entry{
		{Category: category.State, Descriptor: desc("conc", "a", "b")},
		{Category: category.Segmentation, Descriptor: desc("split", "a", "b")},
	}))
	want := []schedule.Wave{
		{Vector: schedule.Vector{0}, Names: []string{"split"}},
		{Vector: schedule.Vector{1}, Names: []string{"conc"}},
	}
	if diff := cmp.Diff(want, c.Waves(ns)); diff != "" {
		t.Errorf("waves mismatch (-want +got):\n%s", diff)
	}
}

func TestCollisionPolicy(t *testing.T) {
	t.Parallel()

	t.Run("Success: last wins", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t)
		_, err := c.Register(ns, category.Deficit, desc("flux", "a", "b"))
		require.NoError(t, err)
		_, err = c.Register(ns, category.Rate, desc("flux", "a", "b"))
		require.NoError(t, err)

		waves := c.Waves(ns)
		require.Len(t, waves, 1)
		assert.Equal(t, schedule.Vector{2, 0}, waves[0].Vector)
	})

	t.Run("Failure: reject leaves the registry untouched", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t, WithCollisionPolicy(schedule.Reject))
		_, err := c.Register(ns, category.Deficit, desc("flux", "a", "b"))
		require.NoError(t, err)
		_, err = c.Register(ns, category.Rate, desc("flux", "a", "b"))
		require.ErrorIs(t, err, schedule.ErrCategoryCollision)

		var ce *schedule.CollisionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "flux", ce.Process)
		assert.Equal(t, 0, ce.Row)

		f, ok := c.Process(ns, "flux")
		require.True(t, ok)
		assert.Equal(t, []category.Category{category.Deficit}, f.Categories())

		// Different rows are fine.
		_, err = c.Register(ns, category.Actual, desc("flux", "a", "b"))
		require.NoError(t, err)
		assert.Equal(t, schedule.Vector{2, 1}, c.Waves(ns)[0].Vector)
	})

	t.Run("Failure: reject refuses a colliding priority table", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t, WithCollisionPolicy(schedule.Reject))
		require.NoError(t, c.RegisterTable(ns, []Entry{
			{Category: category.Rate, Descriptor: desc("flux", "a", "b")},
			{Category: category.Actual, Descriptor: desc("flux", "a", "b")},
		}))
		merged, err := category.ParsePriority([][]string{{"rate", "state", "deficit", "potential", "actual", "segmentation"}})
		require.NoError(t, err)
		require.ErrorIs(t, c.ConfigurePriority(merged), schedule.ErrCategoryCollision)
		assert.Equal(t, category.SchemaMinimal.DefaultPriority(), c.Priority())
	})
}

type recordingObserver struct {
	mu        sync.Mutex
	processes []string
	failed    []string
	steps     []int
}

func (o *recordingObserver) ObserveProcess(_, name string, _ process.Mode, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processes = append(o.processes, name)
	if err != nil {
		o.failed = append(o.failed, name)
	}
}

func (o *recordingObserver) ObserveStep(_ string, focus int, _ time.Duration, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.steps = append(o.steps, focus)
}

func TestRun_Observer(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	c := newMinimal(t, WithObserver(obs))
	require.NoError(t, c.RegisterTable(ns, []Entry{
		{Category: category.State, Descriptor: desc("conc", "rate", "b")},
		{Category: category.Rate, Descriptor: desc("rate", "a", "b")},
		{Category: category.Actual, Descriptor: process.Descriptor{Identifier: "tick", Fn: noop}},
	}))

	inst, store := newScenarioStore()
	store.Declare("rate", "conc")
	require.NoError(t, c.Bind(inst, "props", &focus.Filter{Label: []string{"A"}, Type: []string{"X", "Y"}}))
	require.NoError(t, c.Run(context.Background(), ns))

	assert.Equal(t, []string{"rate", "tick", "conc"}, obs.processes)
	assert.Empty(t, obs.failed)
	assert.Equal(t, []int{2}, obs.steps)
	assert.Equal(t, map[datastore.ElementID]float64{1: 1, 3: 3}, floats(t, store, "conc"))
}

func TestRun_ConcurrentRegistration(t *testing.T) {
	t.Parallel()

	c := newMinimal(t)
	_, err := c.Register(ns, category.Rate, desc("rate", "a", "b"))
	require.NoError(t, err)
	inst, store := newScenarioStore()
	store.Declare("rate")
	require.NoError(t, c.Bind(inst, "props", nil))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 50 {
			assert.NoError(t, c.Run(context.Background(), ns))
		}
	}()
	go func() {
		defer wg.Done()
		for range 50 {
			_, err := c.Register("other", category.State, desc("conc", "a", "b"))
			assert.NoError(t, err)
			_ = c.Waves(ns)
		}
	}()
	wg.Wait()

	assert.Equal(t, map[datastore.ElementID]float64{1: 3, 2: 4, 3: 5}, floats(t, store, "rate"))
}

// runWithin runs one step of ns and fails the test if it does not return
// within two seconds.
func runWithin(t *testing.T, c *Choregrapher) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background(), ns) }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return: a process calling back into the scheduler blocked the step")
		return nil
	}
}

func TestRun_ProcessCallsBackIntoScheduler(t *testing.T) {
	t.Parallel()

	// hook registers an instance-mode process in the rate row that calls fn
	// once, and an elementwise "conc" process that runs after it in the
	// state row of the same step.
	hook := func(t *testing.T, c *Choregrapher, fn func() error) {
		t.Helper()
		called := false
		require.NoError(t, c.RegisterTable(ns, []Entry{
			{Category: category.Rate, Descriptor: process.Descriptor{
				Identifier: "_hook",
				Fn: func(*process.Call) (cty.Value, error) {
					if called {
						return cty.NilVal, nil
					}
					called = true
					return cty.NilVal, fn()
				},
			}},
			{Category: category.State, Descriptor: desc("_conc", "a", "b")},
		}))
	}

	t.Run("Success: SetFilter applies from the next step", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t)
		hook(t, c, func() error {
			return c.SetFilter(ns, &focus.Filter{Label: []string{"A"}, Type: []string{"X"}})
		})
		inst, store := newScenarioStore()
		store.Declare("conc")
		require.NoError(t, c.Bind(inst, "props", nil))

		require.NoError(t, runWithin(t, c))
		assert.Equal(t, []datastore.ElementID{1, 2, 3}, store.Focus(), "the running step keeps its filter")
		assert.Equal(t, map[datastore.ElementID]float64{1: 3, 2: 4, 3: 5}, floats(t, store, "conc"))
		assert.Equal(t, &focus.Filter{Label: []string{"A"}, Type: []string{"X"}}, c.Filter(ns))

		store.Set("a", 1, datastore.Number(10))
		store.Set("a", 2, datastore.Number(10))
		require.NoError(t, runWithin(t, c))
		assert.Equal(t, []datastore.ElementID{1}, store.Focus())
		assert.Equal(t, map[datastore.ElementID]float64{1: 8, 2: 4, 3: 5}, floats(t, store, "conc"))
	})

	t.Run("Success: Bind applies from the next step", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t)
		nextInst, nextStore := newScenarioStore()
		nextStore.Declare("conc")
		hook(t, c, func() error { return c.Bind(nextInst, "props", nil) })
		inst, store := newScenarioStore()
		store.Declare("conc")
		require.NoError(t, c.Bind(inst, "props", nil))

		require.NoError(t, runWithin(t, c))
		assert.Len(t, floats(t, store, "conc"), 3)
		assert.Empty(t, floats(t, nextStore, "conc"))

		require.NoError(t, runWithin(t, c))
		assert.Equal(t, map[datastore.ElementID]float64{1: 3, 2: 4, 3: 5}, floats(t, nextStore, "conc"))
	})

	t.Run("Success: Register applies from the next step", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t)
		hook(t, c, func() error {
			_, err := c.Register(ns, category.Actual, desc("_late", "a", "b"))
			return err
		})
		inst, store := newScenarioStore()
		store.Declare("conc")
		require.NoError(t, c.Bind(inst, "props", nil))

		require.NoError(t, runWithin(t, c))
		assert.Len(t, c.Waves(ns), 3)
		_, ok := store.Array("late")
		assert.False(t, ok, "the running step keeps its plan")
	})

	t.Run("Failure: re-entrant Run of the same namespace", func(t *testing.T) {
		t.Parallel()
		c := newMinimal(t)
		var nested error
		hook(t, c, func() error {
			nested = c.Run(context.Background(), ns)
			return nil
		})
		inst, store := newScenarioStore()
		store.Declare("conc")
		require.NoError(t, c.Bind(inst, "props", nil))

		require.NoError(t, runWithin(t, c))
		require.ErrorIs(t, nested, ErrStepInProgress)
		require.NoError(t, runWithin(t, c), "the step lock is released after the step")
	})
}
