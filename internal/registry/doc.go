// Package registry provides the category registry: the table that maps each
// category of each model namespace to the functors tagged with it.
//
// The Registry is partitioned by namespace and, inside a namespace, indexed
// by category through a fixed-size array rather than by name. A process name
// is unique per namespace: tagging an already-registered process with a
// second category merges the category into the existing functor instead of
// creating a duplicate.
//
// Registration is irrevocable. The registry holds no lock of its own; the
// scheduler that owns it serialises access.
package registry
