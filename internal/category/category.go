package category

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a label is not part of the vocabulary
// in use.
var ErrUnknownCategory = errors.New("unknown category")

// Category is a scheduling label. The zero value is not a valid category.
type Category uint8

const (
	Rate Category = iota + 1
	State
	Deficit
	Potential
	Actual
	Segmentation
	PriorBalance
	SelfBalance
	StepInit
	TotalRate
	TotalState
	Axial
	Allocation
	PostSegmentation
)

// Count is the size of an array indexed by Category. Index 0 is unused.
const Count = int(PostSegmentation) + 1

var names = [Count]string{
	Rate:             "rate",
	State:            "state",
	Deficit:          "deficit",
	Potential:        "potential",
	Actual:           "actual",
	Segmentation:     "segmentation",
	PriorBalance:     "priorbalance",
	SelfBalance:      "selfbalance",
	StepInit:         "stepinit",
	TotalRate:        "totalrate",
	TotalState:       "totalstate",
	Axial:            "axial",
	Allocation:       "allocation",
	PostSegmentation: "postsegmentation",
}

// String returns the configuration name of the category.
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", uint8(c))
	}
	return names[c]
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c >= Rate && c <= PostSegmentation
}

// Parse returns the category with the given configuration name. Matching is
// case-insensitive and ignores surrounding whitespace.
func Parse(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for c := Rate; c <= PostSegmentation; c++ {
		if names[c] == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// All returns every declared category in declaration order.
func All() []Category {
	out := make([]Category, 0, Count-1)
	for c := Rate; c <= PostSegmentation; c++ {
		out = append(out, c)
	}
	return out
}
