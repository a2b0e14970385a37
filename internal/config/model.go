package config

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/choregrapher/internal/focus"
)

// Defaults applied by Resolve.
const (
	DefaultSchema    = "extended"
	DefaultCollision = "last_wins"
	DefaultStoreKind = "elements"
	DefaultDataName  = "props"
	DefaultSteps     = 1
)

// ErrDuplicate is returned when two files define the same block.
var ErrDuplicate = errors.New("duplicate definition")

// Model is the unified, format-agnostic representation of a simulation
// configuration.
type Model struct {
	Simulation *Simulation
	// Models lists model instances in run order.
	Models []*ModelConfig
}

// Simulation holds the scheduler-wide settings.
type Simulation struct {
	// Schema is "minimal" or "extended".
	Schema string
	// Collision is "last_wins" or "reject".
	Collision string
	// Priority overrides the schema's default table when non-empty.
	Priority [][]string
	// Steps is the number of simulated steps. Zero means DefaultSteps.
	Steps int
	// StoreKind is "elements" or "vector".
	StoreKind string
}

// ModelConfig configures one model instance.
type ModelConfig struct {
	// Model names a compiled-in model.
	Model string
	// Name is unique per simulation and is the instance's namespace.
	Name     string
	Disabled bool
	// DataName is the name under which the instance exposes the shared
	// store. Empty means DefaultDataName.
	DataName string
	Filter   *focus.Filter
	Params   map[string]float64
}

// Namespace returns the scheduler namespace of the instance.
func (m *ModelConfig) Namespace() string {
	return m.Name
}

// Enabled returns the model instances that are not disabled, in order.
func (m *Model) Enabled() []*ModelConfig {
	var out []*ModelConfig
	for _, mc := range m.Models {
		if !mc.Disabled {
			out = append(out, mc)
		}
	}
	return out
}

// Merge adds the blocks of other to m. At most one simulation block and one
// model per name may exist across all sources.
func (m *Model) Merge(other *Model) error {
	if other == nil {
		return nil
	}
	if other.Simulation != nil {
		if m.Simulation != nil {
			return fmt.Errorf("%w: simulation block", ErrDuplicate)
		}
		m.Simulation = other.Simulation
	}
	for _, mc := range other.Models {
		if m.model(mc.Name) != nil {
			return fmt.Errorf("%w: model %q", ErrDuplicate, mc.Name)
		}
		m.Models = append(m.Models, mc)
	}
	return nil
}

func (m *Model) model(name string) *ModelConfig {
	for _, mc := range m.Models {
		if mc.Name == name {
			return mc
		}
	}
	return nil
}
