package process

import (
	"slices"

	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/zclconf/go-cty/cty"
)

// Call carries the resolved inputs of one process invocation.
//
// In elementwise mode Arg and Input return the value of each input at
// Element. In aggregate mode and for vector stores Array and ArrayOf return
// whole input arrays. In instance mode only Instance and Store are set.
type Call struct {
	Instance Instance
	Store    *datastore.Store
	Element  datastore.ElementID

	inputs []string
	values []cty.Value
	arrays []datastore.Array
}

// NewElementCall builds the call of an elementwise invocation.
func NewElementCall(inst Instance, store *datastore.Store, id datastore.ElementID, inputs []string, values []cty.Value) *Call {
	return &Call{Instance: inst, Store: store, Element: id, inputs: inputs, values: values}
}

// NewArrayCall builds the call of an aggregate or vector invocation.
func NewArrayCall(inst Instance, store *datastore.Store, inputs []string, arrays []datastore.Array) *Call {
	return &Call{Instance: inst, Store: store, inputs: inputs, arrays: arrays}
}

// NewInstanceCall builds the call of an instance-mode invocation.
func NewInstanceCall(inst Instance, store *datastore.Store) *Call {
	return &Call{Instance: inst, Store: store}
}

// Arg returns the i-th input value. It panics when i is out of range or the
// call carries no element values.
func (c *Call) Arg(i int) cty.Value {
	return c.values[i]
}

// Float returns the i-th input value as float64.
func (c *Call) Float(i int) (float64, error) {
	return datastore.Float(c.values[i])
}

// Input returns the value of the named input, or cty.NilVal when the call
// has no such input.
func (c *Call) Input(name string) cty.Value {
	i := slices.Index(c.inputs, name)
	if i < 0 || i >= len(c.values) {
		return cty.NilVal
	}
	return c.values[i]
}

// Array returns the i-th input array. It panics when i is out of range or the
// call carries no arrays.
func (c *Call) Array(i int) datastore.Array {
	return c.arrays[i]
}

// ArrayOf returns the named input array, or nil when the call has no such
// input.
func (c *Call) ArrayOf(name string) datastore.Array {
	i := slices.Index(c.inputs, name)
	if i < 0 || i >= len(c.arrays) {
		return nil
	}
	return c.arrays[i]
}

// Whole reports whether the call carries whole input arrays rather than the
// values of one element.
func (c *Call) Whole() bool {
	return c.arrays != nil
}

// Inputs returns the declared input names.
func (c *Call) Inputs() []string {
	return slices.Clone(c.inputs)
}
