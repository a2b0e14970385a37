package process

import (
	"maps"
	"slices"
	"sync"

	"github.com/specialistvlad/choregrapher/internal/datastore"
)

// Instance is the model object that owns a namespace's processes.
type Instance interface {
	// Namespace identifies the registry bucket of the instance's processes.
	Namespace() string
	// Data returns the data store exposed under name.
	Data(name string) (*datastore.Store, bool)
}

// AttributeSource is implemented by instances that expose arrays of their own.
// Inputs are looked up there before falling back to the bound data store.
type AttributeSource interface {
	Attribute(name string) (datastore.Array, bool)
}

// BaseInstance is an embeddable Instance with an explicit accessor table.
type BaseInstance struct {
	namespace string

	mu     sync.RWMutex
	stores map[string]*datastore.Store
	attrs  map[string]datastore.Array
}

// NewBaseInstance creates an instance for namespace.
func NewBaseInstance(namespace string) *BaseInstance {
	return &BaseInstance{
		namespace: namespace,
		stores:    make(map[string]*datastore.Store),
		attrs:     make(map[string]datastore.Array),
	}
}

// Namespace implements Instance.
func (b *BaseInstance) Namespace() string {
	return b.namespace
}

// Data implements Instance.
func (b *BaseInstance) Data(name string) (*datastore.Store, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.stores[name]
	return s, ok
}

// AttachStore exposes s under name.
func (b *BaseInstance) AttachStore(name string, s *datastore.Store) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stores[name] = s
}

// Attribute implements AttributeSource.
func (b *BaseInstance) Attribute(name string) (datastore.Array, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.attrs[name]
	return a, ok
}

// Expose adds arr to the accessor table under name.
func (b *BaseInstance) Expose(name string, arr datastore.Array) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attrs[name] = arr
}

// Attributes returns the names of the accessor table in ascending order.
func (b *BaseInstance) Attributes() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Sorted(maps.Keys(b.attrs))
}
