// Package yaml_adapter loads simulation configuration from YAML files.
package yaml_adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/specialistvlad/choregrapher/internal/config"
	"github.com/specialistvlad/choregrapher/internal/ctxlog"
	"github.com/specialistvlad/choregrapher/internal/focus"
	"github.com/specialistvlad/choregrapher/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// Extensions are the file extensions read by the loader.
var Extensions = []string{".yaml", ".yml"}

// document is the YAML schema of one file.
type document struct {
	Simulation *simulation `yaml:"simulation"`
	Models     []*model    `yaml:"models"`
}

type simulation struct {
	Schema    string     `yaml:"schema"`
	Collision string     `yaml:"collision"`
	Steps     int        `yaml:"steps"`
	Store     string     `yaml:"store"`
	Priority  [][]string `yaml:"priority"`
}

type model struct {
	Model    string             `yaml:"model"`
	Name     string             `yaml:"name"`
	Disabled bool               `yaml:"disabled"`
	Data     string             `yaml:"data"`
	Params   map[string]float64 `yaml:"params"`
	Filter   *focus.Filter      `yaml:"filter"`
}

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load decodes every YAML file found under paths. A file may hold several
// documents separated by "---". Unknown keys are decode errors.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(paths, Extensions...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	out := &config.Model{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
		}
		docs, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", file, err)
		}
		for _, doc := range docs {
			if err := out.Merge(translate(doc)); err != nil {
				return nil, fmt.Errorf("in file %s: %w", file, err)
			}
		}
	}

	logger.Debug("YAML loading complete.", "files", len(files), "models", len(out.Models), "simulation", out.Simulation != nil)
	return out, nil
}

func decode(data []byte) ([]*document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var docs []*document
	for {
		var doc document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
}

func translate(doc *document) *config.Model {
	out := &config.Model{}
	if s := doc.Simulation; s != nil {
		out.Simulation = &config.Simulation{
			Schema:    s.Schema,
			Collision: s.Collision,
			Steps:     s.Steps,
			StoreKind: s.Store,
			Priority:  s.Priority,
		}
	}
	for _, m := range doc.Models {
		out.Models = append(out.Models, &config.ModelConfig{
			Model:    m.Model,
			Name:     m.Name,
			Disabled: m.Disabled,
			DataName: m.Data,
			Params:   maps.Clone(m.Params),
			Filter:   m.Filter.Clone(),
		})
	}
	return out
}
