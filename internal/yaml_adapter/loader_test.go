package yaml_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/choregrapher/internal/config"
	"github.com/specialistvlad/choregrapher/internal/focus"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "simulation.yaml", `
simulation:
  schema: extended
  collision: last_wins
  steps: 3
  priority:
    - [rate, state]
    - [stepinit]
`)
	writeFile(t, dir, "models.yml", `
models:
  - model: rootgrowth
    name: main_root
    params:
      growth_rate: 0.3
    filter:
      label: [Apex]
      type: [Normal_root_after_emergence]
---
models:
  - model: rootcarbon
    name: carbon
    disabled: true
    data: soil
`)
	writeFile(t, dir, "notes.hcl", `model "x" "y" {}`)

	got, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	want := &config.Model{
		Simulation: &config.Simulation{
			Schema:    "extended",
			Collision: "last_wins",
			Steps:     3,
			Priority:  [][]string{{"rate", "state"}, {"stepinit"}},
		},
		Models: []*config.ModelConfig{
			{
				Model:  "rootgrowth",
				Name:   "main_root",
				Params: map[string]float64{"growth_rate": 0.3},
				Filter: &focus.Filter{Label: []string{"Apex"}, Type: []string{"Normal_root_after_emergence"}},
			},
			{Model: "rootcarbon", Name: "carbon", Disabled: true, DataName: "soil"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_Failures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "Failure: unknown key", content: "simulation:\n  workers: 4\n", want: "field workers not found"},
		{name: "Failure: malformed", content: "models: [\n", want: "failed to decode YAML file"},
		{name: "Failure: duplicate model", content: "models:\n  - {model: rootgrowth, name: a}\n  - {model: rootcarbon, name: a}\n", want: "duplicate definition"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := writeFile(t, t.TempDir(), "sim.yaml", tc.content)
			_, err := NewLoader().Load(context.Background(), p)
			require.ErrorContains(t, err, tc.want)
		})
	}
}
