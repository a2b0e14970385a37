package datastore

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// Reserved per-element arrays read by the focus filter.
const (
	LabelAttribute = "label"
	TypeAttribute  = "type"
)

// ErrNoArray is returned when a named array has not been declared.
var ErrNoArray = errors.New("array not declared")

// Kind selects how processes see the arrays of a store.
type Kind int

const (
	KindElements Kind = iota
	KindVector
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindElements:
		return "elements"
	case KindVector:
		return "vector"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Store is an in-memory collection of named arrays plus the set of live
// element identifiers and the focus published by the scheduler.
type Store struct {
	mu       sync.RWMutex
	kind     Kind
	arrays   map[string]Array
	elements map[ElementID]struct{}
	focus    []ElementID
}

// Option configures a Store.
type Option func(*Store)

// WithKind sets the store kind. The default is KindElements.
func WithKind(k Kind) Option {
	return func(s *Store) { s.kind = k }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		arrays:   make(map[string]Array),
		elements: make(map[ElementID]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind returns the store kind.
func (s *Store) Kind() Kind {
	return s.kind
}

// Declare creates an empty array for every name that does not exist yet.
func (s *Store) Declare(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		if _, ok := s.arrays[name]; !ok {
			s.arrays[name] = make(Array)
		}
	}
}

// Array returns the live array registered under name.
func (s *Store) Array(name string) (Array, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.arrays[name]
	return a, ok
}

// Names returns the declared array names in ascending order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.arrays))
}

// Set stores one value, declaring the array if needed.
func (s *Store) Set(name string, id ElementID, v cty.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.arrays[name]
	if !ok {
		a = make(Array)
		s.arrays[name] = a
	}
	a[id] = v
}

// Merge copies values into an existing array. Keys absent from values are
// left untouched.
func (s *Store) Merge(name string, values Array) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.arrays[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoArray, name)
	}
	maps.Copy(a, values)
	return nil
}

// Replace swaps the content of an existing array for values.
func (s *Store) Replace(name string, values Array) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.arrays[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNoArray, name)
	}
	s.arrays[name] = maps.Clone(values)
	return nil
}

// AddElements marks ids as live elements.
func (s *Store) AddElements(ids ...ElementID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.elements[id] = struct{}{}
	}
}

// RemoveElements drops ids from the live element set. Their array entries are
// kept.
func (s *Store) RemoveElements(ids ...ElementID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.elements, id)
	}
}

// HasElement reports whether id is a live element.
func (s *Store) HasElement(id ElementID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.elements[id]
	return ok
}

// IDs returns the full live element set in ascending order.
func (s *Store) IDs() []ElementID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.elements))
}

// NextID returns an identifier greater than every live element.
func (s *Store) NextID() ElementID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	next := ElementID(1)
	for id := range s.elements {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

// Focus returns the focus published by the last scheduler step.
func (s *Store) Focus() []ElementID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.focus)
}

// SetFocus publishes the focus of the current step.
func (s *Store) SetFocus(ids []ElementID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focus = slices.Clone(ids)
}
