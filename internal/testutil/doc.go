// Package testutil holds shared helpers for end-to-end tests of the
// simulation driver: a log-capturing harness over temporary configuration
// files, log assertions and a counting test model.
package testutil
