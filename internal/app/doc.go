// Package app contains the simulation driver. It loads a configuration,
// wires the compiled-in models into a Choregrapher over one shared data
// store and runs the configured number of steps, decoupled from any
// specific entrypoint like a CLI or server.
package app
