package schedule

import (
	"slices"
	"strconv"
	"strings"
)

// Vector is a priority vector: one column index per priority row.
type Vector []int

// Compare orders vectors lexicographically. A shorter vector that is a prefix
// of a longer one sorts first.
func (v Vector) Compare(o Vector) int {
	return slices.Compare(v, o)
}

// Equal reports whether v and o hold the same indices.
func (v Vector) Equal(o Vector) bool {
	return slices.Equal(v, o)
}

// String renders v as "[0 1 0]".
func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
