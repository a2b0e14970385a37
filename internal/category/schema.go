package category

import (
	"fmt"
	"strings"
)

// Schema selects a generation of the category vocabulary.
type Schema int

const (
	SchemaExtended Schema = iota
	SchemaMinimal
)

var minimalVocabulary = []Category{Rate, State, Deficit, Potential, Actual, Segmentation}

// String returns the configuration name of the schema.
func (s Schema) String() string {
	switch s {
	case SchemaMinimal:
		return "minimal"
	case SchemaExtended:
		return "extended"
	default:
		return fmt.Sprintf("schema(%d)", int(s))
	}
}

// ParseSchema accepts "minimal" or "extended". An empty string selects the
// extended schema.
func ParseSchema(s string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "extended":
		return SchemaExtended, nil
	case "minimal":
		return SchemaMinimal, nil
	default:
		return 0, fmt.Errorf("unknown schema %q: must be 'minimal' or 'extended'", s)
	}
}

// Vocabulary returns the categories available in the schema.
func (s Schema) Vocabulary() []Category {
	if s == SchemaMinimal {
		out := make([]Category, len(minimalVocabulary))
		copy(out, minimalVocabulary)
		return out
	}
	return All()
}

// Has reports whether c belongs to the schema's vocabulary.
func (s Schema) Has(c Category) bool {
	if !c.Valid() {
		return false
	}
	if s == SchemaMinimal {
		for _, m := range minimalVocabulary {
			if m == c {
				return true
			}
		}
		return false
	}
	return true
}

// DefaultPriority returns the built-in priority table of the schema.
func (s Schema) DefaultPriority() Priority {
	if s == SchemaMinimal {
		return Priority{
			{Rate, State, Deficit},
			{Potential, Actual, Segmentation},
		}
	}
	return Priority{
		{PriorBalance, SelfBalance},
		{Rate, TotalRate, State, TotalState},
		{Axial},
		{Potential, Deficit, Allocation, Actual, Segmentation, PostSegmentation},
		// Last row: step initialisation keeps the lowest vector in every other row.
		{StepInit},
	}
}

// Validate checks that every category of p belongs to the schema.
func (s Schema) Validate(p Priority) error {
	for i, row := range p {
		for j, c := range row {
			if !s.Has(c) {
				return fmt.Errorf("priority row %d column %d: %w: %s not in %s schema", i, j, ErrUnknownCategory, c, s)
			}
		}
	}
	return nil
}
