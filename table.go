package main

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// table renders rows in left-aligned columns. Widths are measured in
// terminal cells so voice names in CJK or with accents line up.
type table struct {
	header []string
	rows   [][]string
}

func (t *table) add(cols ...string) {
	t.rows = append(t.rows, cols)
}

func (t *table) String() string {
	widths := make([]int, len(t.header))
	for _, row := range append([][]string{t.header}, t.rows...) {
		for i, col := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(col))
			}
		}
	}

	var b strings.Builder
	write := func(row []string) {
		for i, col := range row {
			if i >= len(widths) {
				break
			}
			if i == len(row)-1 {
				b.WriteString(col)
				break
			}
			b.WriteString(runewidth.FillRight(col, widths[i]))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}
	write(t.header)
	for _, row := range t.rows {
		write(row)
	}
	return b.String()
}

// clip shortens s to width cells.
func clip(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, width, "...")
}
