package schedule

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/choregrapher/internal/category"
)

// ErrCategoryCollision is returned under Reject when one process is tagged
// with two categories of the same row.
var ErrCategoryCollision = errors.New("category collision in priority row")

// CollisionPolicy decides what happens when a process has two categories in
// one priority row.
type CollisionPolicy int

const (
	// LastWins keeps the column encountered last in the row.
	LastWins CollisionPolicy = iota
	// Reject refuses the schedule.
	Reject
)

// String returns the configuration name of the policy.
func (p CollisionPolicy) String() string {
	switch p {
	case LastWins:
		return "last_wins"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseCollisionPolicy accepts "last_wins" or "reject". An empty string
// selects LastWins.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last_wins", "last-wins":
		return LastWins, nil
	case "reject":
		return Reject, nil
	default:
		return 0, fmt.Errorf("unknown collision policy %q: must be 'last_wins' or 'reject'", s)
	}
}

// Entry is one process as seen by the wave builder.
type Entry struct {
	Name       string
	Categories []category.Category
}

// Wave is a group of processes sharing one vector, in entry order.
type Wave struct {
	Vector Vector
	Names  []string
}

// CollisionError describes one same-row collision.
type CollisionError struct {
	Process string
	Row     int
	First   category.Category
	Second  category.Category
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("process %q: categories %s and %s share priority row %d", e.Process, e.First, e.Second, e.Row)
}

func (e *CollisionError) Unwrap() error {
	return ErrCategoryCollision
}

// VectorOf computes the priority vector of e under rows, together with every
// same-row collision found on the way.
func VectorOf(rows category.Priority, e Entry) (Vector, []*CollisionError) {
	vec := make(Vector, len(rows))
	var collisions []*CollisionError
	for r, row := range rows {
		var seen category.Category
		for col, c := range row {
			if !slices.Contains(e.Categories, c) {
				continue
			}
			if seen.Valid() && seen != c {
				collisions = append(collisions, &CollisionError{Process: e.Name, Row: r, First: seen, Second: c})
			}
			seen = c
			vec[r] = col
		}
	}
	return vec, collisions
}

// Build computes the ordered waves of entries under rows.
func Build(rows category.Priority, entries []Entry, policy CollisionPolicy) ([]Wave, error) {
	var waves []Wave
	for _, e := range entries {
		vec, collisions := VectorOf(rows, e)
		if policy == Reject && len(collisions) > 0 {
			return nil, collisions[0]
		}
		i := slices.IndexFunc(waves, func(w Wave) bool { return w.Vector.Equal(vec) })
		if i < 0 {
			waves = append(waves, Wave{Vector: vec})
			i = len(waves) - 1
		}
		waves[i].Names = append(waves[i].Names, e.Name)
	}
	slices.SortStableFunc(waves, func(a, b Wave) int { return a.Vector.Compare(b.Vector) })
	return waves, nil
}
