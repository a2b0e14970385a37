package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any
// file. Unknown blocks and attributes are decode errors.
type fileRoot struct {
	Simulations []*Simulation `hcl:"simulation,block"`
	Models      []*Model      `hcl:"model,block"`
}

// Simulation is the HCL schema of the `simulation` block.
type Simulation struct {
	Schema    *string        `hcl:"schema,optional"`
	Collision *string        `hcl:"collision,optional"`
	Steps     *int           `hcl:"steps,optional"`
	Store     *string        `hcl:"store,optional"`
	Priority  hcl.Expression `hcl:"priority,optional"`
}

// Model is the HCL schema of a `model "<type>" "<name>"` block.
type Model struct {
	Type     string             `hcl:"type,label"`
	Name     string             `hcl:"name,label"`
	Disabled *bool              `hcl:"disabled,optional"`
	Data     *string            `hcl:"data,optional"`
	Params   map[string]float64 `hcl:"params,optional"`
	Filter   *Filter            `hcl:"filter,block"`
}

// Filter is the HCL schema of a model's `filter` block. Both attributes are
// optional here so that a half-specified filter reaches config validation.
type Filter struct {
	Label []string `hcl:"label,optional"`
	Type  []string `hcl:"type,optional"`
}
