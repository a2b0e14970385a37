package choregrapher

import (
	"fmt"

	"github.com/specialistvlad/choregrapher/internal/focus"
	"github.com/specialistvlad/choregrapher/internal/functor"
	"github.com/specialistvlad/choregrapher/internal/process"
)

// Bind attaches inst and its data store dataName to every process currently
// registered in inst's namespace. Processes registered later stay unbound
// until the next Bind. A previous binding of the namespace is replaced.
// filter may be nil to focus on every element of the store. Called during a
// step, the new binding applies from the next step.
func (c *Choregrapher) Bind(inst process.Instance, dataName string, filter *focus.Filter) error {
	ns := inst.Namespace()

	store, ok := inst.Data(dataName)
	if !ok {
		return fmt.Errorf("namespace %q: data store: %w", ns, process.UnknownAttribute(dataName))
	}
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return fmt.Errorf("namespace %q: %w", ns, err)
		}
		filter = filter.Clone()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.namespaces[ns]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}

	b := functor.Binding{Instance: inst, Store: store, Kind: store.Kind()}
	functors := c.registry.Functors(ns)
	for _, f := range functors {
		f.Bind(b)
	}
	st.binding = &b
	st.filter = filter

	c.logger.Debug("Namespace bound.", "namespace", ns, "data", dataName, "processes", len(functors), "filtered", filter != nil)
	return nil
}

// SetFilter replaces the focus filter of ns. It takes effect at the next Run
// without rebinding, also when called by a process of ns mid-step. A nil
// filter focuses on every element.
func (c *Choregrapher) SetFilter(ns string, filter *focus.Filter) error {
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return err
		}
		filter = filter.Clone()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.namespaces[ns]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}
	st.filter = filter
	return nil
}

// Filter returns a copy of the focus filter of ns, or nil.
func (c *Choregrapher) Filter(ns string) *focus.Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.namespaces[ns]
	if !ok || st.filter == nil {
		return nil
	}
	return st.filter.Clone()
}
