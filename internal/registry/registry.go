package registry

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/specialistvlad/choregrapher/internal/category"
	"github.com/specialistvlad/choregrapher/internal/functor"
)

// bucket holds the functors of one namespace.
type bucket struct {
	byCategory [category.Count][]*functor.Functor
	byName     map[string]*functor.Functor
	order      []*functor.Functor
}

func newBucket() *bucket {
	return &bucket{byName: make(map[string]*functor.Functor)}
}

// Registry holds every registered functor, partitioned by namespace.
type Registry struct {
	buckets map[string]*bucket
	logger  *slog.Logger
}

// New creates an empty registry that logs registrations to logger. A nil
// logger means slog.Default.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{buckets: make(map[string]*bucket), logger: logger}
}

// Namespaces returns every namespace with at least one registration, in
// ascending order.
func (r *Registry) Namespaces() []string {
	return slices.Sorted(maps.Keys(r.buckets))
}

// Has reports whether ns has registrations.
func (r *Registry) Has(ns string) bool {
	_, ok := r.buckets[ns]
	return ok
}

// Functors returns the unique functors of ns in registration order.
func (r *Registry) Functors(ns string) []*functor.Functor {
	b, ok := r.buckets[ns]
	if !ok {
		return nil
	}
	return slices.Clone(b.order)
}

// Tagged returns the functors of ns tagged with c, in tagging order.
func (r *Registry) Tagged(ns string, c category.Category) []*functor.Functor {
	b, ok := r.buckets[ns]
	if !ok || !c.Valid() {
		return nil
	}
	return slices.Clone(b.byCategory[c])
}

// Lookup returns the functor registered under name in ns.
func (r *Registry) Lookup(ns, name string) (*functor.Functor, bool) {
	b, ok := r.buckets[ns]
	if !ok {
		return nil, false
	}
	f, ok := b.byName[name]
	return f, ok
}

// Categories returns the categories name is tagged with in ns.
func (r *Registry) Categories(ns, name string) []category.Category {
	f, ok := r.Lookup(ns, name)
	if !ok {
		return nil
	}
	return f.Categories()
}
