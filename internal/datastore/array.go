package datastore

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ElementID identifies one element of the simulated structure.
type ElementID int

// TotalKey is the single key aggregate processes write their result under.
const TotalKey ElementID = 1

// Array maps element identifiers to values.
type Array map[ElementID]cty.Value

// IDs returns the keys of a in ascending order.
func (a Array) IDs() []ElementID {
	ids := make([]ElementID, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Floats converts every value of a to float64.
func (a Array) Floats() (map[ElementID]float64, error) {
	out := make(map[ElementID]float64, len(a))
	for id, v := range a {
		f, err := Float(v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", id, err)
		}
		out[id] = f
	}
	return out, nil
}

// ToCty returns a as an object keyed by decimal element identifiers.
func (a Array) ToCty() cty.Value {
	if len(a) == 0 {
		return cty.EmptyObjectVal
	}
	attrs := make(map[string]cty.Value, len(a))
	for id, v := range a {
		attrs[strconv.Itoa(int(id))] = v
	}
	return cty.ObjectVal(attrs)
}

// ArrayFromCty is the inverse of Array.ToCty. It accepts any known, non-null
// map or object value whose keys are decimal element identifiers.
func ArrayFromCty(v cty.Value) (Array, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("array value must be known and non-null")
	}
	ty := v.Type()
	if !ty.IsMapType() && !ty.IsObjectType() {
		return nil, fmt.Errorf("array value must be a map or object, got %s", ty.FriendlyName())
	}
	out := make(Array, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		id, err := strconv.Atoi(k.AsString())
		if err != nil {
			return nil, fmt.Errorf("array key %q is not an element id: %w", k.AsString(), err)
		}
		out[ElementID(id)] = ev
	}
	return out, nil
}

// Number returns f as a cty number.
func Number(f float64) cty.Value {
	return cty.NumberFloatVal(f)
}

// Float converts a cty number to float64.
func Float(v cty.Value) (float64, error) {
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return 0, err
	}
	return f, nil
}

// Numbers builds an Array of numbers from plain Go values.
func Numbers(values map[ElementID]float64) Array {
	out := make(Array, len(values))
	for id, f := range values {
		out[id] = Number(f)
	}
	return out
}

// Strings builds an Array of strings from plain Go values.
func Strings(values map[ElementID]string) Array {
	out := make(Array, len(values))
	for id, s := range values {
		out[id] = cty.StringVal(s)
	}
	return out
}
