package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/choregrapher/internal/config"
	"github.com/specialistvlad/choregrapher/internal/ctxlog"
	"github.com/specialistvlad/choregrapher/internal/fsutil"
)

// Extension is the file extension read by the loader.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges their blocks into
// one model. Files with other extensions are ignored.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		translated := &config.Model{}
		for _, sim := range root.Simulations {
			s, err := translateSimulation(ctx, sim)
			if err != nil {
				return nil, fmt.Errorf("in file %s: %w", file, err)
			}
			if err := translated.Merge(&config.Model{Simulation: s}); err != nil {
				return nil, fmt.Errorf("in file %s: %w", file, err)
			}
		}
		for _, m := range root.Models {
			if err := translated.Merge(&config.Model{Models: []*config.ModelConfig{translateModel(m)}}); err != nil {
				return nil, fmt.Errorf("in file %s: %w", file, err)
			}
		}
		if err := model.Merge(translated); err != nil {
			return nil, fmt.Errorf("in file %s: %w", file, err)
		}
	}

	logger.Debug("HCL loading complete.", "files", len(files), "models", len(model.Models), "simulation", model.Simulation != nil)
	return model, nil
}
