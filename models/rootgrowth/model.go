// Package rootgrowth is a demo root elongation model. Apices elongate towards
// a potential length capped by a maximal elongation per step, and every apex
// longer than a segment length leaves segment elements behind it.
package rootgrowth

import (
	"fmt"

	"github.com/specialistvlad/choregrapher/internal/category"
	"github.com/specialistvlad/choregrapher/internal/choregrapher"
	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/specialistvlad/choregrapher/internal/process"
	"github.com/specialistvlad/choregrapher/models/kit"
	"github.com/zclconf/go-cty/cty"
)

// Name is the configuration name of the model.
const Name = "rootgrowth"

// Element labels and type written by the model.
const (
	LabelApex    = "Apex"
	LabelSegment = "Segment"
	TypeRoot     = "Normal_root_after_emergence"
)

// Store arrays owned by the model.
const (
	Length          = "length"
	PotentialLength = "potential_length"
	ActualLength    = "actual_length"
)

// Defaults of the model parameters.
var Defaults = map[string]float64{
	"growth_rate":    0.2,
	"max_elongation": 0.5,
	"segment_length": 1.0,
	"initial_length": 0.5,
}

// Model implements app.Model.
type Model struct{}

// Name returns the configuration name of the model.
func (Model) Name() string { return Name }

// Register tags the model's processes in namespace ns.
func (Model) Register(c *choregrapher.Choregrapher, ns string) error {
	return c.RegisterTable(ns, []choregrapher.Entry{
		{Category: category.Potential, Descriptor: process.Descriptor{
			Identifier: "_" + PotentialLength,
			Inputs:     []string{Length},
			Fn:         withInstance(potentialLength),
		}},
		{Category: category.Actual, Descriptor: process.Descriptor{
			Identifier: "_" + ActualLength,
			Inputs:     []string{PotentialLength, Length},
			Fn:         withInstance(actualLength),
		}},
		{Category: category.Segmentation, Descriptor: process.Descriptor{
			Identifier: "_segmentation",
			Fn:         segmentation,
		}},
		{Category: category.State, Descriptor: process.Descriptor{
			Identifier: "_" + Length,
			Inputs:     []string{ActualLength},
			Fn:         kit.Scalar(func(x []float64) float64 { return x[0] }),
		}},
	})
}

// Instance is the state of one root system.
type Instance struct {
	*process.BaseInstance
	params   map[string]float64
	segments int
}

// NewInstance creates a root system in namespace ns exposing store under
// dataName. An empty store is seeded with a single apex.
func (Model) NewInstance(ns, dataName string, store *datastore.Store, params map[string]float64) (process.Instance, error) {
	p, err := kit.Params(Defaults, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Name, err)
	}
	inst := &Instance{BaseInstance: process.NewBaseInstance(ns), params: p}
	inst.AttachStore(dataName, store)

	store.Declare(datastore.LabelAttribute, datastore.TypeAttribute, Length, PotentialLength, ActualLength)
	if len(store.IDs()) == 0 {
		addElement(store, 1, LabelApex, TypeRoot, p["initial_length"])
	}
	return inst, nil
}

// Segments returns the number of segments created so far.
func (i *Instance) Segments() int { return i.segments }

func addElement(store *datastore.Store, id datastore.ElementID, label, typ string, length float64) {
	store.AddElements(id)
	store.Set(datastore.LabelAttribute, id, cty.StringVal(label))
	store.Set(datastore.TypeAttribute, id, cty.StringVal(typ))
	for _, name := range []string{Length, PotentialLength, ActualLength} {
		store.Set(name, id, datastore.Number(length))
	}
}

func instanceOf(c *process.Call) (*Instance, error) {
	inst, ok := c.Instance.(*Instance)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected instance %T", Name, c.Instance)
	}
	return inst, nil
}

// withInstance lifts a parameterised scalar rule to a process body.
func withInstance(rule func(p map[string]float64, x []float64) float64) process.Func {
	return func(c *process.Call) (cty.Value, error) {
		inst, err := instanceOf(c)
		if err != nil {
			return cty.NilVal, err
		}
		return kit.Scalar(func(x []float64) float64 { return rule(inst.params, x) })(c)
	}
}

func potentialLength(p map[string]float64, x []float64) float64 {
	return x[0] * (1 + p["growth_rate"])
}

func actualLength(p map[string]float64, x []float64) float64 {
	return min(x[0], x[1]+p["max_elongation"])
}

// segmentation splits every focused apex longer than the segment length.
// New segments are not in the current focus; their arrays are written here.
func segmentation(c *process.Call) (cty.Value, error) {
	inst, err := instanceOf(c)
	if err != nil {
		return cty.NilVal, err
	}
	store := c.Store
	seg := inst.params["segment_length"]

	labels, ok := store.Array(datastore.LabelAttribute)
	if !ok {
		return cty.NilVal, process.UnknownAttribute(datastore.LabelAttribute)
	}
	actual, ok := store.Array(ActualLength)
	if !ok {
		return cty.NilVal, process.UnknownAttribute(ActualLength)
	}

	for _, id := range store.Focus() {
		label, ok := labels[id]
		if !ok {
			return cty.NilVal, process.MissingElement(datastore.LabelAttribute, id)
		}
		if label.Type() != cty.String || label.IsNull() || label.AsString() != LabelApex {
			continue
		}
		length, err := datastore.Float(actual[id])
		if err != nil {
			return cty.NilVal, fmt.Errorf("element %d: %w", id, err)
		}
		for length > seg {
			typ := TypeRoot
			if types, ok := store.Array(datastore.TypeAttribute); ok {
				if v, ok := types[id]; ok && v.Type() == cty.String && !v.IsNull() {
					typ = v.AsString()
				}
			}
			addElement(store, store.NextID(), LabelSegment, typ, seg)
			inst.segments++
			length -= seg
		}
		store.Set(ActualLength, id, datastore.Number(length))
	}
	return cty.NilVal, nil
}
