// Package schedule turns category tags into an ordered sequence of waves.
//
// # How It Works
//
// Every process receives a priority Vector with one slot per priority row.
// For each row, in row order, and each category of that row, in column order,
// every process tagged with the category gets the column index at that row's
// slot. A process absent from a row keeps 0 there.
//
// Processes with identical vectors form one Wave. Waves are sorted by
// ascending lexicographic comparison of their integer vectors, so [0 1] runs
// before [1 0] and [2 0] runs before [10 0].
//
// # Collisions
//
// A process tagged with two categories of the same row has two candidate
// columns for one slot. LastWins keeps the column encountered last, the
// highest one. Reject reports a CollisionError instead.
//
// Build is pure: the same rows and entries always give the same waves.
package schedule
