// Package process describes the computations a model hands to the scheduler.
//
// A model never relies on reflection to expose its processes. Instead it
// supplies a Descriptor per computation: the registered name, the declared
// input attribute names, an execution mode and the function itself. The
// function receives a *Call giving access to its resolved inputs and to the
// owning Instance.
//
// The package also owns the lookup-fault taxonomy shared by the functor and
// the scheduler: ErrMissingBinding, ErrUnknownAttribute and ErrMissingElement.
// Faults are never replaced by default values.
package process
