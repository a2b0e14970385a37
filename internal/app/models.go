package app

import (
	"github.com/specialistvlad/choregrapher/internal/choregrapher"
	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/specialistvlad/choregrapher/internal/process"
	"github.com/specialistvlad/choregrapher/models/rootcarbon"
	"github.com/specialistvlad/choregrapher/models/rootgrowth"
)

// Model is a compiled-in simulation model. One model may back several
// configured instances, each in its own namespace.
type Model interface {
	// Name is the model type referenced by configuration.
	Name() string
	// Register tags the model's processes in namespace ns.
	Register(c *choregrapher.Choregrapher, ns string) error
	// NewInstance creates the instance of namespace ns exposing store under
	// dataName.
	NewInstance(ns, dataName string, store *datastore.Store, params map[string]float64) (process.Instance, error)
}

// coreModels is the definitive list of all models that are compiled into
// the choregrapher binary.
var coreModels = []Model{
	rootgrowth.Model{},
	rootcarbon.Model{},
}
