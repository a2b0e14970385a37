package process

import (
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/choregrapher/internal/category"
	"github.com/zclconf/go-cty/cty"
)

// ReservedPrefix marks an identifier as a private implementation of a process.
// It is stripped to obtain the registered name, so "_rate" registers "rate".
const ReservedPrefix = "_"

// Mode is the execution mode of a process.
type Mode int

const (
	// ModeAuto resolves the mode from the category the process is first
	// tagged with.
	ModeAuto Mode = iota
	// ModeElementwise invokes the process once per focus element.
	ModeElementwise
	// ModeAggregate invokes the process once with whole input arrays and
	// stores a single value under datastore.TotalKey.
	ModeAggregate
	// ModeInstance invokes the process once per step with the instance only.
	ModeInstance
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeElementwise:
		return "elementwise"
	case ModeAggregate:
		return "aggregate"
	case ModeInstance:
		return "instance"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Func is the body of a process. The returned value is written to the output
// array named after the process; it is ignored in instance mode.
type Func func(c *Call) (cty.Value, error)

// Descriptor declares one process.
type Descriptor struct {
	// Identifier is the declared name. ReservedPrefix is stripped from it.
	Identifier string
	// Inputs are the attribute names the process reads, in argument order.
	Inputs []string
	Mode   Mode
	Fn     Func
}

// Name returns the registered process name.
func (d Descriptor) Name() string {
	return NameOf(d.Identifier)
}

// Validate checks the descriptor can be wrapped.
func (d Descriptor) Validate() error {
	if d.Name() == "" {
		return fmt.Errorf("process descriptor has an empty name (identifier %q)", d.Identifier)
	}
	if d.Fn == nil {
		return fmt.Errorf("process %q has no function", d.Name())
	}
	for i, in := range d.Inputs {
		if strings.TrimSpace(in) == "" {
			return fmt.Errorf("process %q input %d has an empty name", d.Name(), i)
		}
	}
	return nil
}

// SameInputs reports whether d and other declare the same inputs in order.
func (d Descriptor) SameInputs(other Descriptor) bool {
	return slices.Equal(d.Inputs, other.Inputs)
}

// NameOf strips ReservedPrefix from an identifier.
func NameOf(identifier string) string {
	return strings.TrimPrefix(identifier, ReservedPrefix)
}

// DefaultMode returns the mode a category implies for ModeAuto processes.
func DefaultMode(c category.Category) Mode {
	switch c {
	case category.TotalRate, category.TotalState:
		return ModeAggregate
	case category.PriorBalance, category.SelfBalance, category.StepInit:
		return ModeInstance
	default:
		return ModeElementwise
	}
}

// ResolveMode returns the effective mode of d when first tagged with c. A
// process without inputs always runs in instance mode.
func ResolveMode(d Descriptor, c category.Category) Mode {
	if len(d.Inputs) == 0 {
		return ModeInstance
	}
	if d.Mode == ModeAuto {
		return DefaultMode(c)
	}
	return d.Mode
}
