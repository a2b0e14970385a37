package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/choregrapher/internal/category"
	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/specialistvlad/choregrapher/internal/schedule"
)

// Resolved holds the typed scheduler settings derived from a Model.
type Resolved struct {
	Schema    category.Schema
	Priority  category.Priority
	Collision schedule.CollisionPolicy
	Steps     int
	StoreKind datastore.Kind
}

// Validate checks the model for errors that do not depend on the compiled-in
// models. Every problem found is reported.
func (m *Model) Validate() error {
	var errs []error
	if _, err := m.Resolve(); err != nil {
		errs = append(errs, err)
	}
	for i, mc := range m.Models {
		if mc.Name == "" {
			errs = append(errs, fmt.Errorf("model %d: name is required", i))
		}
		if mc.Model == "" {
			errs = append(errs, fmt.Errorf("model %q: model type is required", mc.Name))
		}
		if err := mc.Filter.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("model %q: %w", mc.Name, err))
		}
	}
	if len(m.Enabled()) == 0 {
		errs = append(errs, errors.New("no enabled model"))
	}
	return errors.Join(errs...)
}

// Resolve translates the simulation block, applying defaults for every
// omitted setting.
func (m *Model) Resolve() (*Resolved, error) {
	sim := m.Simulation
	if sim == nil {
		sim = &Simulation{}
	}

	schemaName := sim.Schema
	if schemaName == "" {
		schemaName = DefaultSchema
	}
	schema, err := category.ParseSchema(schemaName)
	if err != nil {
		return nil, fmt.Errorf("simulation schema: %w", err)
	}

	priority := schema.DefaultPriority()
	if len(sim.Priority) > 0 {
		if priority, err = category.ParsePriority(sim.Priority); err != nil {
			return nil, fmt.Errorf("simulation priority: %w", err)
		}
		if err := schema.Validate(priority); err != nil {
			return nil, fmt.Errorf("simulation priority: %w", err)
		}
	}

	collision, err := schedule.ParseCollisionPolicy(sim.Collision)
	if err != nil {
		return nil, fmt.Errorf("simulation collision: %w", err)
	}

	steps := sim.Steps
	if steps == 0 {
		steps = DefaultSteps
	}
	if steps < 0 {
		return nil, fmt.Errorf("simulation steps: must not be negative, got %d", steps)
	}

	kind, err := parseStoreKind(sim.StoreKind)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Schema:    schema,
		Priority:  priority,
		Collision: collision,
		Steps:     steps,
		StoreKind: kind,
	}, nil
}

// DataNameOf returns the store name of mc, defaulting to DefaultDataName.
func DataNameOf(mc *ModelConfig) string {
	if mc.DataName == "" {
		return DefaultDataName
	}
	return mc.DataName
}

func parseStoreKind(s string) (datastore.Kind, error) {
	switch strings.ToLower(s) {
	case "", DefaultStoreKind:
		return datastore.KindElements, nil
	case "vector":
		return datastore.KindVector, nil
	default:
		return 0, fmt.Errorf("simulation store: unknown kind %q, want 'elements' or 'vector'", s)
	}
}
