// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"
	"maps"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/choregrapher/internal/config"
	"github.com/specialistvlad/choregrapher/internal/ctxlog"
	"github.com/specialistvlad/choregrapher/internal/focus"
)

// translateSimulation converts the HCL simulation block into the agnostic model.
func translateSimulation(ctx context.Context, s *Simulation) (*config.Simulation, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Translating HCL simulation block to internal config model.")

	out := &config.Simulation{
		Schema:    stringOr(s.Schema, ""),
		Collision: stringOr(s.Collision, ""),
		StoreKind: stringOr(s.Store, ""),
	}
	if s.Steps != nil {
		out.Steps = *s.Steps
	}

	if isExprDefined(ctx, s.Priority, "priority") {
		var rows [][]string
		if diags := gohcl.DecodeExpression(s.Priority, nil, &rows); diags.HasErrors() {
			return nil, fmt.Errorf("invalid priority: %w", diags)
		}
		logger.Debug("Priority table overridden.", "rows", len(rows))
		out.Priority = rows
	}
	return out, nil
}

// translateModel converts the HCL model block into the agnostic model.
func translateModel(m *Model) *config.ModelConfig {
	out := &config.ModelConfig{
		Model:    m.Type,
		Name:     m.Name,
		DataName: stringOr(m.Data, ""),
		Params:   maps.Clone(m.Params),
	}
	if m.Disabled != nil {
		out.Disabled = *m.Disabled
	}
	if m.Filter != nil {
		out.Filter = &focus.Filter{Label: m.Filter.Label, Type: m.Filter.Type}
	}
	return out
}
