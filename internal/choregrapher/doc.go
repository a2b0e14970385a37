// Package choregrapher provides the process scheduler of step-based
// simulation models.
//
// # Why Choregrapher Exists
//
// A plant or soil model is a bag of small computations: rates, state
// balances, potential and actual growth, segmentation. Their execution order
// matters (all rates before all states, all potentials before all
// segmentations) but writing a dependency graph by hand for every model is
// tedious and fragile. Instead, model authors tag each computation with a
// category and a nested priority table decides the order declaratively, by
// table position.
//
// # How It Works
//
//  1. Register: every (process, category) pair of a namespace is added to the
//     registry; the namespace's waves are rebuilt in full each time.
//  2. Bind: a model instance and one of its data stores are bound to every
//     process already registered in the instance's namespace, optionally with
//     a label/type focus filter.
//  3. Run: once per simulated step, the focus is recomputed, then waves run in
//     ascending priority-vector order, each process in registration order.
//
// # Relationship with Other Components
//
//   - registry: owns the category buckets.
//   - schedule: computes vectors and wave order.
//   - functor: executes one process in its mode.
//   - focus: computes the focus set.
//
// # Thread-Safety
//
// A Choregrapher is an explicit object owned by the simulation driver; there
// is no global instance. Registration, configuration and binding take a write
// lock. Run snapshots the schedule, the binding of every process and the
// focus filter under a read lock, then executes without holding it, so
// registration can never alter a step in flight. Processes may therefore call
// back into the scheduler: Register, Bind and SetFilter apply from the next
// step. One step per namespace runs at a time; a concurrent or re-entrant Run
// of the same namespace fails with ErrStepInProgress. Processes inside a wave
// run sequentially.
package choregrapher
