package process

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/choregrapher/internal/datastore"
)

var (
	// ErrMissingBinding is returned when a process runs before its namespace
	// was bound to an instance and data store.
	ErrMissingBinding = errors.New("process is not bound to an instance")

	// ErrUnknownAttribute is returned when a declared input or output has no
	// matching instance attribute or data store array.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrMissingElement is returned when an array has no value for an element
	// in focus. It wraps ErrUnknownAttribute.
	ErrMissingElement = fmt.Errorf("%w: no value for element", ErrUnknownAttribute)
)

// LookupError reports a failed attribute access.
type LookupError struct {
	Attribute string
	// Element is set when the fault concerns a single element.
	Element *datastore.ElementID
	Err     error
}

func (e *LookupError) Error() string {
	if e.Element != nil {
		return fmt.Sprintf("attribute %q element %d: %v", e.Attribute, *e.Element, e.Err)
	}
	return fmt.Sprintf("attribute %q: %v", e.Attribute, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// UnknownAttribute builds a LookupError for a missing array.
func UnknownAttribute(name string) error {
	return &LookupError{Attribute: name, Err: ErrUnknownAttribute}
}

// MissingElement builds a LookupError for a missing value.
func MissingElement(name string, id datastore.ElementID) error {
	return &LookupError{Attribute: name, Element: &id, Err: ErrMissingElement}
}
