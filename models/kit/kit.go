// Package kit holds helpers shared by the compiled-in models.
package kit

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/specialistvlad/choregrapher/internal/process"
	"github.com/zclconf/go-cty/cty"
)

// Scalar lifts fn to a process body. fn receives the numeric inputs of one
// element. When the call carries whole arrays, fn is applied to every element
// of the first input and the result is returned as one array value.
func Scalar(fn func(x []float64) float64) process.Func {
	return func(c *process.Call) (cty.Value, error) {
		inputs := c.Inputs()
		if !c.Whole() {
			xs := make([]float64, len(inputs))
			for i := range xs {
				x, err := c.Float(i)
				if err != nil {
					return cty.NilVal, fmt.Errorf("input %q: %w", inputs[i], err)
				}
				xs[i] = x
			}
			return datastore.Number(fn(xs)), nil
		}

		arrays := make([]map[datastore.ElementID]float64, len(inputs))
		for i := range inputs {
			f, err := c.Array(i).Floats()
			if err != nil {
				return cty.NilVal, fmt.Errorf("input %q: %w", inputs[i], err)
			}
			arrays[i] = f
		}
		out := make(datastore.Array, len(arrays[0]))
		xs := make([]float64, len(inputs))
		for id := range arrays[0] {
			for i, arr := range arrays {
				v, ok := arr[id]
				if !ok {
					return cty.NilVal, process.MissingElement(inputs[i], id)
				}
				xs[i] = v
			}
			out[id] = datastore.Number(fn(xs))
		}
		return out.ToCty(), nil
	}
}

// Sum is an aggregate body adding up the first input array.
func Sum(c *process.Call) (cty.Value, error) {
	values, err := c.Array(0).Floats()
	if err != nil {
		return cty.NilVal, err
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return datastore.Number(total), nil
}

// Params overlays given on defaults. Keys absent from defaults are rejected.
func Params(defaults, given map[string]float64) (map[string]float64, error) {
	var unknown []string
	for k := range given {
		if _, ok := defaults[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, fmt.Errorf("unknown parameters: %s (known: %s)",
			strings.Join(unknown, ", "), strings.Join(slices.Sorted(maps.Keys(defaults)), ", "))
	}
	out := maps.Clone(defaults)
	maps.Copy(out, given)
	return out, nil
}
