// Package cli builds the choregrapher command tree. It parses command-line
// arguments, validates user input and translates flags into the
// application's configuration. Usage errors are reported as *ExitError so
// the entrypoint can map them to exit codes.
package cli
