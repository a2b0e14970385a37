package category

import (
	"fmt"
	"strings"
)

// Row is one priority row: categories ordered by column.
type Row []Category

// Priority is the nested ordering table. Row index is the most significant
// ordering key.
type Priority []Row

// ParsePriority converts a table of configuration names into a Priority.
func ParsePriority(rows [][]string) (Priority, error) {
	p := make(Priority, 0, len(rows))
	for i, names := range rows {
		row := make(Row, 0, len(names))
		for j, name := range names {
			c, err := Parse(name)
			if err != nil {
				return nil, fmt.Errorf("priority row %d column %d: %w", i, j, err)
			}
			row = append(row, c)
		}
		p = append(p, row)
	}
	return p, nil
}

// Clone returns a deep copy of p.
func (p Priority) Clone() Priority {
	out := make(Priority, len(p))
	for i, row := range p {
		out[i] = append(Row(nil), row...)
	}
	return out
}

// Strings returns the configuration names of p.
func (p Priority) Strings() [][]string {
	out := make([][]string, len(p))
	for i, row := range p {
		out[i] = make([]string, len(row))
		for j, c := range row {
			out[i][j] = c.String()
		}
	}
	return out
}

// Position returns every (row, column) at which c appears.
func (p Priority) Position(c Category) [][2]int {
	var out [][2]int
	for i, row := range p {
		for j, rc := range row {
			if rc == c {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

// String renders p as "[[rate state] [potential actual]]".
func (p Priority) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, row := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('[')
		for j, c := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(c.String())
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}
