// Package datastore provides the in-memory per-element data store a model
// instance exposes to the scheduler.
//
// # Purpose
//
// Models keep their state as named arrays. An array maps element identifiers
// (the vertices of the plant or soil structure) to values. The scheduler reads
// process inputs from these arrays and writes each process output back into
// the array named after the process.
//
// Values are cty.Value so the same store can hold numbers, labels and flags
// without a per-model Go type, and so configuration-sourced values convert
// without glue code.
//
// # Reserved arrays
//
// Two arrays carry meaning for the scheduler itself: LabelAttribute and
// TypeAttribute. They are read when a focus filter is configured.
//
// # Kinds
//
//   - KindElements: arrays are keyed per element; elementwise processes run
//     once per focus element.
//   - KindVector: arrays are treated as whole vectors; every non-instance
//     process runs once and replaces its output array.
//
// # Concurrency Model
//
// The Store guards its array table, element set and focus with a RWMutex.
// The Array values it hands out are live maps and are not guarded: the
// scheduler executes sequentially and owns every write during a step.
package datastore
