package boolmaze

import (
	"fmt"
	"strings"
)

// String draws the main grid. '@' is the defuser, 'G' the goal and 'S' the
// start; other cells show their gate.
func (m *Maze) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "serial %s  display %d", m.layout.Serial, m.digit)
	if m.solved {
		b.WriteString("  solved")
	}
	b.WriteByte('\n')
	for row := range GridSize {
		for col := range GridSize {
			if col > 0 {
				b.WriteByte(' ')
			}
			p := Point{row, col}
			switch p {
			case m.pos:
				b.WriteString("  @ ")
			case m.goal:
				b.WriteString("  G ")
			case m.layout.Start:
				b.WriteString("  S ")
			default:
				fmt.Fprintf(&b, "%4s", p.Gate())
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
