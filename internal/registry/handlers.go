package registry

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/choregrapher/internal/category"
	"github.com/specialistvlad/choregrapher/internal/functor"
	"github.com/specialistvlad/choregrapher/internal/process"
)

// ErrConflictingProcess is returned when a process name is re-tagged with a
// descriptor that declares different inputs, or an explicit mode other than
// the one the process already runs in.
var ErrConflictingProcess = errors.New("conflicting process registration")

// Add tags the process described by desc with c in namespace ns. The first
// registration of a name wraps desc in a new functor; later registrations of
// the same name merge c into it. created reports whether a functor was made.
func (r *Registry) Add(ns string, c category.Category, desc process.Descriptor) (f *functor.Functor, created bool, err error) {
	if !c.Valid() {
		return nil, false, fmt.Errorf("%w: %s", category.ErrUnknownCategory, c)
	}
	if err := desc.Validate(); err != nil {
		return nil, false, err
	}

	b, ok := r.buckets[ns]
	if !ok {
		b = newBucket()
		r.buckets[ns] = b
	}

	name := desc.Name()
	if existing, ok := b.byName[name]; ok {
		if !existing.Descriptor().SameInputs(desc) {
			return nil, false, fmt.Errorf("%w: %s/%s declares inputs %v, already registered with %v",
				ErrConflictingProcess, ns, name, desc.Inputs, existing.Inputs())
		}
		if desc.Mode != process.ModeAuto && process.ResolveMode(desc, c) != existing.Mode() {
			return nil, false, fmt.Errorf("%w: %s/%s declares mode %s, already registered with %s",
				ErrConflictingProcess, ns, name, desc.Mode, existing.Mode())
		}
		if existing.Merge(c) {
			b.byCategory[c] = append(b.byCategory[c], existing)
			r.logger.Debug("Merged category into process.", "namespace", ns, "process", name, "category", c.String())
		}
		return existing, false, nil
	}

	f, err = functor.New(desc, c)
	if err != nil {
		return nil, false, err
	}
	b.byName[name] = f
	b.order = append(b.order, f)
	b.byCategory[c] = append(b.byCategory[c], f)
	r.logger.Debug("Registered process.", "namespace", ns, "process", name, "category", c.String(), "mode", f.Mode().String())
	return f, true, nil
}
