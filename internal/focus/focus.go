// Package focus computes the set of elements elementwise processes operate on
// during a step.
package focus

import (
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/specialistvlad/choregrapher/internal/process"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ErrInvalidFilter is returned when only one of the two accepted-value sets
// is provided.
var ErrInvalidFilter = errors.New("invalid focus filter")

// Filter accepts an element when both its label and its type are listed.
type Filter struct {
	Label []string `yaml:"label"`
	Type  []string `yaml:"type"`
}

// Validate checks that both sets are given.
func (f *Filter) Validate() error {
	if f == nil {
		return nil
	}
	if len(f.Label) == 0 || len(f.Type) == 0 {
		return fmt.Errorf("%w: 'label' and 'type' must be provided together", ErrInvalidFilter)
	}
	return nil
}

// Clone returns a deep copy of f.
func (f *Filter) Clone() *Filter {
	if f == nil {
		return nil
	}
	return &Filter{Label: slices.Clone(f.Label), Type: slices.Clone(f.Type)}
}

// Accepts reports whether a label/type pair passes the filter.
func (f *Filter) Accepts(label, typ string) bool {
	return slices.Contains(f.Label, label) && slices.Contains(f.Type, typ)
}

// Elements returns the focus of store under f in ascending id order. A nil
// filter selects every live element.
func Elements(store *datastore.Store, f *Filter) ([]datastore.ElementID, error) {
	all := store.IDs()
	if f == nil {
		return all, nil
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	labels, ok := store.Array(datastore.LabelAttribute)
	if !ok {
		return nil, process.UnknownAttribute(datastore.LabelAttribute)
	}
	types, ok := store.Array(datastore.TypeAttribute)
	if !ok {
		return nil, process.UnknownAttribute(datastore.TypeAttribute)
	}

	out := make([]datastore.ElementID, 0, len(all))
	for _, id := range all {
		label, err := stringAt(labels, datastore.LabelAttribute, id)
		if err != nil {
			return nil, err
		}
		typ, err := stringAt(types, datastore.TypeAttribute, id)
		if err != nil {
			return nil, err
		}
		if f.Accepts(label, typ) {
			out = append(out, id)
		}
	}
	return out, nil
}

func stringAt(arr datastore.Array, name string, id datastore.ElementID) (string, error) {
	v, ok := arr[id]
	if !ok {
		return "", process.MissingElement(name, id)
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("attribute %q element %d: %w", name, id, err)
	}
	if sv.IsNull() || !sv.IsKnown() {
		return "", nil
	}
	return sv.AsString(), nil
}
