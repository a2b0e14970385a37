// Package category defines the fixed vocabulary of scheduling labels a model
// can tag its processes with, and the nested priority tables that place each
// label at a column within a row.
//
// # Schemas
//
// The vocabulary is versioned. SchemaMinimal carries the six labels of the
// first generation of models (rate, state, deficit, potential, actual,
// segmentation). SchemaExtended adds balance, step initialisation, totals,
// axial transport, allocation and post-segmentation labels.
//
// # Priority tables
//
// A Priority is an ordered list of rows, each an ordered list of categories.
// Row order is the most significant ordering key; column order within a row
// is the next one. Adding a category to the ordering requires no code change
// in the scheduler, only an entry in the table.
package category
