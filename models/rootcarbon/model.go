// Package rootcarbon is a demo carbon balance model. Every element consumes
// hexose in proportion to its length; consumption that cannot be covered is
// recorded as a deficit.
package rootcarbon

import (
	"fmt"
	"sync/atomic"

	"github.com/specialistvlad/choregrapher/internal/category"
	"github.com/specialistvlad/choregrapher/internal/choregrapher"
	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/specialistvlad/choregrapher/internal/process"
	"github.com/specialistvlad/choregrapher/models/kit"
	"github.com/zclconf/go-cty/cty"
)

// Name is the configuration name of the model.
const Name = "rootcarbon"

// Store arrays read or owned by the model.
const (
	Length                 = "length"
	Hexose                 = "hexose"
	HexoseConsumption      = "hexose_consumption"
	TotalHexoseConsumption = "total_hexose_consumption"
	HexoseDeficit          = "hexose_deficit"
)

// Defaults of the model parameters.
var Defaults = map[string]float64{
	"consumption_rate": 0.05,
	"initial_hexose":   1.0,
	"initial_length":   1.0,
}

// Model implements app.Model.
type Model struct{}

// Name returns the configuration name of the model.
func (Model) Name() string { return Name }

// Register tags the model's processes in namespace ns. The step counter is
// registered first so it leads the wave it shares with the consumption rate.
func (Model) Register(c *choregrapher.Choregrapher, ns string) error {
	return c.RegisterTable(ns, []choregrapher.Entry{
		{Category: category.StepInit, Descriptor: process.Descriptor{
			Identifier: "_step_counter",
			Fn:         stepCounter,
		}},
		{Category: category.Rate, Descriptor: process.Descriptor{
			Identifier: "_" + HexoseConsumption,
			Inputs:     []string{Length},
			Fn:         consumption,
		}},
		{Category: category.TotalRate, Descriptor: process.Descriptor{
			Identifier: "_" + TotalHexoseConsumption,
			Inputs:     []string{HexoseConsumption},
			Fn:         kit.Sum,
		}},
		{Category: category.State, Descriptor: process.Descriptor{
			Identifier: "_" + Hexose,
			Inputs:     []string{Hexose, HexoseConsumption},
			Fn:         kit.Scalar(func(x []float64) float64 { return max(x[0]-x[1], 0) }),
		}},
		{Category: category.Deficit, Descriptor: process.Descriptor{
			Identifier: "_" + HexoseDeficit,
			Inputs:     []string{Hexose, HexoseConsumption},
			Fn:         kit.Scalar(func(x []float64) float64 { return max(x[1]-x[0], 0) }),
		}},
	})
}

// Instance is the carbon state of one root system.
type Instance struct {
	*process.BaseInstance
	params map[string]float64
	steps  atomic.Int64
}

// NewInstance creates a carbon balance in namespace ns exposing store under
// dataName. An empty store is seeded with one element of initial_length.
func (Model) NewInstance(ns, dataName string, store *datastore.Store, params map[string]float64) (process.Instance, error) {
	p, err := kit.Params(Defaults, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Name, err)
	}
	inst := &Instance{BaseInstance: process.NewBaseInstance(ns), params: p}
	inst.AttachStore(dataName, store)

	store.Declare(datastore.LabelAttribute, datastore.TypeAttribute, Length,
		Hexose, HexoseConsumption, TotalHexoseConsumption, HexoseDeficit)
	if len(store.IDs()) == 0 {
		store.AddElements(1)
		store.Set(datastore.LabelAttribute, 1, cty.StringVal("Segment"))
		store.Set(datastore.TypeAttribute, 1, cty.StringVal("Base_of_the_root_system"))
		store.Set(Length, 1, datastore.Number(p["initial_length"]))
	}
	return inst, nil
}

// Steps returns the number of steps run so far.
func (i *Instance) Steps() int64 { return i.steps.Load() }

func instanceOf(c *process.Call) (*Instance, error) {
	inst, ok := c.Instance.(*Instance)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected instance %T", Name, c.Instance)
	}
	return inst, nil
}

// stepCounter counts steps and gives every element that appeared since the
// previous step its initial carbon pools.
func stepCounter(c *process.Call) (cty.Value, error) {
	inst, err := instanceOf(c)
	if err != nil {
		return cty.NilVal, err
	}
	inst.steps.Add(1)

	hexose, ok := c.Store.Array(Hexose)
	if !ok {
		return cty.NilVal, process.UnknownAttribute(Hexose)
	}
	for _, id := range c.Store.IDs() {
		if _, ok := hexose[id]; ok {
			continue
		}
		c.Store.Set(Hexose, id, datastore.Number(inst.params["initial_hexose"]))
		c.Store.Set(HexoseConsumption, id, datastore.Number(0))
		c.Store.Set(HexoseDeficit, id, datastore.Number(0))
	}
	return cty.NilVal, nil
}

func consumption(c *process.Call) (cty.Value, error) {
	inst, err := instanceOf(c)
	if err != nil {
		return cty.NilVal, err
	}
	rate := inst.params["consumption_rate"]
	return kit.Scalar(func(x []float64) float64 { return rate * x[0] })(c)
}
