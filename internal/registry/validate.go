package registry

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/specialistvlad/choregrapher/internal/process"
)

// CheckAttributes reports every input or output of the functors in ns that
// neither inst nor store can resolve. It is an advisory parity check: the
// functors themselves still fail at first access.
func (r *Registry) CheckAttributes(ns string, inst process.Instance, store *datastore.Store) error {
	var errs []string
	src, hasAttrs := inst.(process.AttributeSource)

	resolves := func(name string) bool {
		if hasAttrs {
			if _, ok := src.Attribute(name); ok {
				return true
			}
		}
		_, ok := store.Array(name)
		return ok
	}

	for _, f := range r.Functors(ns) {
		for _, in := range f.Inputs() {
			if !resolves(in) {
				errs = append(errs, fmt.Sprintf("process '%s': input '%s' is not an instance attribute or store array", f.Name(), in))
			}
		}
		if f.Mode() == process.ModeInstance {
			continue
		}
		if _, ok := store.Array(f.Name()); !ok {
			errs = append(errs, fmt.Sprintf("process '%s': output array '%s' is not declared in the store", f.Name(), f.Name()))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("namespace '%s' attribute check failed:\n- %s", ns, strings.Join(errs, "\n- "))
	}
	return nil
}
