// Package functor adapts one process to the uniform execution protocol used
// by the scheduler: elementwise, aggregate or instance mode, over either a
// per-element or a whole-vector data store.
package functor

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/specialistvlad/choregrapher/internal/category"
	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/specialistvlad/choregrapher/internal/process"
	"github.com/zclconf/go-cty/cty"
)

// Binding is the partial application of a functor to a model instance and
// its data store.
type Binding struct {
	Instance process.Instance
	Store    *datastore.Store
	Kind     datastore.Kind
}

// Functor is the runtime wrapper of one process.
type Functor struct {
	desc       process.Descriptor
	name       string
	inputs     []string
	mode       process.Mode
	categories []category.Category

	binding atomic.Pointer[Binding]
}

// New wraps desc. cat is the first category the process is tagged with; it
// decides the execution mode when desc.Mode is process.ModeAuto.
func New(desc process.Descriptor, cat category.Category) (*Functor, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &Functor{
		desc:       desc,
		name:       desc.Name(),
		inputs:     slices.Clone(desc.Inputs),
		mode:       process.ResolveMode(desc, cat),
		categories: []category.Category{cat},
	}, nil
}

// Name returns the registered process name, which is also the output array.
func (f *Functor) Name() string { return f.name }

// Inputs returns the declared input names.
func (f *Functor) Inputs() []string { return slices.Clone(f.inputs) }

// Mode returns the resolved execution mode.
func (f *Functor) Mode() process.Mode { return f.mode }

// Descriptor returns the descriptor the functor was built from.
func (f *Functor) Descriptor() process.Descriptor { return f.desc }

// Categories returns the categories the process is tagged with, in tagging
// order.
func (f *Functor) Categories() []category.Category {
	return slices.Clone(f.categories)
}

// Tagged reports whether the process is tagged with c.
func (f *Functor) Tagged(c category.Category) bool {
	return slices.Contains(f.categories, c)
}

// Merge records an additional category. It reports whether c was new.
func (f *Functor) Merge(c category.Category) bool {
	if f.Tagged(c) {
		return false
	}
	f.categories = append(f.categories, c)
	return true
}

// Bind replaces the functor's binding. It is safe to call while the functor
// executes; the running execution keeps the binding it started with.
func (f *Functor) Bind(b Binding) {
	f.binding.Store(&b)
}

// Bound reports whether Bind was called.
func (f *Functor) Bound() bool {
	return f.binding.Load() != nil
}

// Binding returns the current binding, or nil.
func (f *Functor) Binding() *Binding {
	return f.binding.Load()
}

// Execute runs the process once against its current binding. focus is only
// used in elementwise mode over a per-element store. Aggregates write under
// datastore.TotalKey whatever the store kind.
func (f *Functor) Execute(focus []datastore.ElementID) error {
	return f.ExecuteBound(f.binding.Load(), focus)
}

// ExecuteBound is Execute against b, a binding captured earlier with
// Binding. A nil b fails with process.ErrMissingBinding.
func (f *Functor) ExecuteBound(b *Binding, focus []datastore.ElementID) error {
	if b == nil {
		return fmt.Errorf("process %q: %w", f.name, process.ErrMissingBinding)
	}

	if f.mode == process.ModeInstance {
		_, err := f.desc.Fn(process.NewInstanceCall(b.Instance, b.Store))
		return err
	}

	if f.mode == process.ModeAggregate {
		return f.executeAggregate(b)
	}
	if b.Kind == datastore.KindVector {
		return f.executeVector(b)
	}
	return f.executeElementwise(b, focus)
}

func (f *Functor) executeElementwise(b *Binding, focus []datastore.ElementID) error {
	arrays, err := f.resolveInputs(b)
	if err != nil {
		return err
	}
	if _, ok := b.Store.Array(f.name); !ok {
		return process.UnknownAttribute(f.name)
	}

	// Results are collected before the write so a failing element leaves the
	// output array untouched.
	results := make(datastore.Array, len(focus))
	for _, id := range focus {
		values := make([]cty.Value, len(arrays))
		for i, arr := range arrays {
			v, ok := arr[id]
			if !ok {
				return process.MissingElement(f.inputs[i], id)
			}
			values[i] = v
		}
		out, err := f.desc.Fn(process.NewElementCall(b.Instance, b.Store, id, f.inputs, values))
		if err != nil {
			return fmt.Errorf("element %d: %w", id, err)
		}
		results[id] = out
	}
	return b.Store.Merge(f.name, results)
}

func (f *Functor) executeAggregate(b *Binding) error {
	arrays, err := f.resolveInputs(b)
	if err != nil {
		return err
	}
	if _, ok := b.Store.Array(f.name); !ok {
		return process.UnknownAttribute(f.name)
	}
	out, err := f.desc.Fn(process.NewArrayCall(b.Instance, b.Store, f.inputs, arrays))
	if err != nil {
		return err
	}
	return b.Store.Merge(f.name, datastore.Array{datastore.TotalKey: out})
}

func (f *Functor) executeVector(b *Binding) error {
	arrays, err := f.resolveInputs(b)
	if err != nil {
		return err
	}
	if _, ok := b.Store.Array(f.name); !ok {
		return process.UnknownAttribute(f.name)
	}
	out, err := f.desc.Fn(process.NewArrayCall(b.Instance, b.Store, f.inputs, arrays))
	if err != nil {
		return err
	}
	arr, err := datastore.ArrayFromCty(out)
	if err != nil {
		return fmt.Errorf("vector result of %q: %w", f.name, err)
	}
	return b.Store.Replace(f.name, arr)
}

// resolveInputs looks every input up in the instance accessor table first and
// in the bound store second.
func (f *Functor) resolveInputs(b *Binding) ([]datastore.Array, error) {
	src, hasAttrs := b.Instance.(process.AttributeSource)
	arrays := make([]datastore.Array, len(f.inputs))
	for i, name := range f.inputs {
		if hasAttrs {
			if arr, ok := src.Attribute(name); ok {
				arrays[i] = arr
				continue
			}
		}
		arr, ok := b.Store.Array(name)
		if !ok {
			return nil, process.UnknownAttribute(name)
		}
		arrays[i] = arr
	}
	return arrays, nil
}
