package choregrapher

import (
	"fmt"

	"github.com/specialistvlad/choregrapher/internal/category"
	"github.com/specialistvlad/choregrapher/internal/functor"
	"github.com/specialistvlad/choregrapher/internal/process"
	"github.com/specialistvlad/choregrapher/internal/schedule"
)

// Entry is one row of a model's registration table.
type Entry struct {
	Category   category.Category
	Descriptor process.Descriptor
}

// Register tags the process described by desc with cat in namespace ns and
// rebuilds the namespace's waves.
func (c *Choregrapher) Register(ns string, cat category.Category, desc process.Descriptor) (*functor.Functor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.register(ns, cat, desc)
}

// RegisterTable registers every row of table in order. It stops at the first
// failing row; rows before it stay registered.
func (c *Choregrapher) RegisterTable(ns string, table []Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range table {
		if _, err := c.register(ns, r.Category, r.Descriptor); err != nil {
			return fmt.Errorf("registration %d (%s %s): %w", i, r.Category, r.Descriptor.Name(), err)
		}
	}
	return nil
}

// Rebuild recomputes the waves of ns under the current priority table.
func (c *Choregrapher) Rebuild(ns string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.registry.Has(ns) {
		return fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}
	return c.rebuild(ns)
}

func (c *Choregrapher) register(ns string, cat category.Category, desc process.Descriptor) (*functor.Functor, error) {
	if !c.schema.Has(cat) {
		return nil, fmt.Errorf("%w: %s is not part of the %s schema", category.ErrUnknownCategory, cat, c.schema)
	}

	if c.policy == schedule.Reject {
		cats := append(c.registry.Categories(ns, desc.Name()), cat)
		if _, collisions := schedule.VectorOf(c.priority, schedule.Entry{Name: desc.Name(), Categories: cats}); len(collisions) > 0 {
			return nil, collisions[0]
		}
	}

	f, _, err := c.registry.Add(ns, cat, desc)
	if err != nil {
		return nil, err
	}
	if _, ok := c.namespaces[ns]; !ok {
		c.namespaces[ns] = &namespace{}
	}
	if err := c.rebuild(ns); err != nil {
		return nil, err
	}
	return f, nil
}

// entries lists the processes of ns for the wave builder.
func (c *Choregrapher) entries(ns string) []schedule.Entry {
	functors := c.registry.Functors(ns)
	out := make([]schedule.Entry, len(functors))
	for i, f := range functors {
		out[i] = schedule.Entry{Name: f.Name(), Categories: f.Categories()}
	}
	return out
}

// rebuild replaces the waves of ns. Callers hold c.mu.
func (c *Choregrapher) rebuild(ns string) error {
	waves, err := schedule.Build(c.priority, c.entries(ns), c.policy)
	if err != nil {
		return fmt.Errorf("namespace %q: %w", ns, err)
	}

	plan := make([]plannedWave, len(waves))
	for i, w := range waves {
		pw := plannedWave{vector: w.Vector, functors: make([]*functor.Functor, 0, len(w.Names))}
		for _, name := range w.Names {
			f, _ := c.registry.Lookup(ns, name)
			pw.functors = append(pw.functors, f)
		}
		plan[i] = pw
	}

	st := c.namespaces[ns]
	st.waves = waves
	st.plan = plan
	c.logger.Debug("Schedule rebuilt.", "namespace", ns, "waves", len(waves))
	return nil
}
