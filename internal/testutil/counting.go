package testutil

import (
	"sync/atomic"

	"github.com/specialistvlad/choregrapher/internal/category"
	"github.com/specialistvlad/choregrapher/internal/choregrapher"
	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/specialistvlad/choregrapher/internal/process"
	"github.com/zclconf/go-cty/cty"
)

// CountingModel is a test model with a single instance-mode process that
// counts its executions. Its name is configurable so several can coexist.
type CountingModel struct {
	ModelName string
	// Category tags the process; zero is category.Rate.
	Category category.Category
	// Fail makes every execution return this error.
	Fail error

	runs atomic.Int64
}

// Runs returns the executions recorded across all instances.
func (m *CountingModel) Runs() int64 { return m.runs.Load() }

// Name implements app.Model.
func (m *CountingModel) Name() string { return m.ModelName }

// Register implements app.Model.
func (m *CountingModel) Register(c *choregrapher.Choregrapher, ns string) error {
	cat := m.Category
	if cat == 0 {
		cat = category.Rate
	}
	_, err := c.Register(ns, cat, process.Descriptor{
		Identifier: "_count",
		Mode:       process.ModeInstance,
		Fn: func(*process.Call) (cty.Value, error) {
			m.runs.Add(1)
			return cty.NilVal, m.Fail
		},
	})
	return err
}

// NewInstance implements app.Model.
func (m *CountingModel) NewInstance(ns, dataName string, store *datastore.Store, _ map[string]float64) (process.Instance, error) {
	inst := process.NewBaseInstance(ns)
	inst.AttachStore(dataName, store)
	return inst, nil
}
