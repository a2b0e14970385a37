package choregrapher

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/specialistvlad/choregrapher/internal/category"
	"github.com/specialistvlad/choregrapher/internal/focus"
	"github.com/specialistvlad/choregrapher/internal/functor"
	"github.com/specialistvlad/choregrapher/internal/registry"
	"github.com/specialistvlad/choregrapher/internal/schedule"
)

var (
	// ErrUnknownNamespace is returned for a namespace without registrations.
	ErrUnknownNamespace = errors.New("unknown namespace")
	// ErrStepInProgress is returned by Run when a step of the namespace is
	// already running, including a Run issued from inside one of its
	// processes.
	ErrStepInProgress = errors.New("step already in progress")
)

// plannedWave is a schedule.Wave resolved to functors.
type plannedWave struct {
	vector   schedule.Vector
	functors []*functor.Functor
}

// namespace holds the per-namespace schedule, binding and filter.
type namespace struct {
	waves   []schedule.Wave
	plan    []plannedWave
	binding *functor.Binding
	filter  *focus.Filter

	// runMu is held for the duration of a step. Bind and SetFilter never
	// take it, so processes may call them; they take effect at the next step.
	runMu sync.Mutex
}

// Choregrapher is the scheduler context object.
type Choregrapher struct {
	mu         sync.RWMutex
	schema     category.Schema
	priority   category.Priority
	policy     schedule.CollisionPolicy
	registry   *registry.Registry
	namespaces map[string]*namespace

	observer Observer
	logger   *slog.Logger
}

// Option configures a Choregrapher.
type Option func(*Choregrapher)

// WithSchema selects the category vocabulary. The priority table defaults to
// the schema's built-in table.
func WithSchema(s category.Schema) Option {
	return func(c *Choregrapher) {
		c.schema = s
		c.priority = s.DefaultPriority()
	}
}

// WithPriority replaces the default priority table. Apply it after
// WithSchema.
func WithPriority(p category.Priority) Option {
	return func(c *Choregrapher) { c.priority = p.Clone() }
}

// WithCollisionPolicy selects how same-row collisions are resolved.
func WithCollisionPolicy(p schedule.CollisionPolicy) Option {
	return func(c *Choregrapher) { c.policy = p }
}

// WithObserver installs an observer of process and step executions.
func WithObserver(o Observer) Option {
	return func(c *Choregrapher) { c.observer = o }
}

// WithLogger sets the logger used for registration events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Choregrapher) { c.logger = l }
}

// New creates a scheduler. Without options it uses the extended schema, its
// default priority table and the LastWins collision policy.
func New(opts ...Option) (*Choregrapher, error) {
	c := &Choregrapher{
		schema:     category.SchemaExtended,
		priority:   category.SchemaExtended.DefaultPriority(),
		policy:     schedule.LastWins,
		namespaces: make(map[string]*namespace),
		observer:   nopObserver{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.registry = registry.New(c.logger)
	if err := c.schema.Validate(c.priority); err != nil {
		return nil, fmt.Errorf("invalid priority table: %w", err)
	}
	return c, nil
}

// Schema returns the category vocabulary in use.
func (c *Choregrapher) Schema() category.Schema {
	return c.schema
}

// Policy returns the collision policy in use.
func (c *Choregrapher) Policy() schedule.CollisionPolicy {
	return c.policy
}

// Priority returns a copy of the current priority table.
func (c *Choregrapher) Priority() category.Priority {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.priority.Clone()
}

// ConfigurePriority replaces the priority table. Existing namespaces keep
// their waves until the next registration or Rebuild. Under the Reject policy
// a table that makes an already-registered process collide is refused.
func (c *Choregrapher) ConfigurePriority(p category.Priority) error {
	if err := c.schema.Validate(p); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.policy == schedule.Reject {
		for _, ns := range c.registry.Namespaces() {
			for _, e := range c.entries(ns) {
				if _, collisions := schedule.VectorOf(p, e); len(collisions) > 0 {
					return fmt.Errorf("namespace %q: %w", ns, collisions[0])
				}
			}
		}
	}

	c.priority = p.Clone()
	c.logger.Debug("Priority table configured.", "rows", len(p), "priority", p.String())
	return nil
}

// Namespaces returns every namespace with registrations.
func (c *Choregrapher) Namespaces() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry.Namespaces()
}

// Waves returns the current waves of ns in execution order.
func (c *Choregrapher) Waves(ns string) []schedule.Wave {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.namespaces[ns]
	if !ok {
		return nil
	}
	out := make([]schedule.Wave, len(st.waves))
	for i, w := range st.waves {
		out[i] = schedule.Wave{Vector: append(schedule.Vector(nil), w.Vector...), Names: append([]string(nil), w.Names...)}
	}
	return out
}

// Process returns the functor registered under name in ns.
func (c *Choregrapher) Process(ns, name string) (*functor.Functor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry.Lookup(ns, name)
}

// Registry exposes the underlying registry for read-only checks such as
// registry.CheckAttributes. Callers must not register through it.
func (c *Choregrapher) Registry() *registry.Registry {
	return c.registry
}
