// Package table pads rows of cells into aligned columns.
package table

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const gap = "  "

// Format returns the rows padded according to the widest entry in each column.
func Format(rows [][]string, alignments []Alignment) []string {
	return Fit(rows, alignments, 0, -1)
}

// Fit formats rows like Format and then shrinks column flex until every
// line fits in width cells. Cells in the flex column are truncated with an
// ellipsis. A width of zero or a negative flex disables fitting.
func Fit(rows [][]string, alignments []Alignment, width, flex int) []string {
	if len(rows) == 0 {
		return nil
	}
	widths := columnWidths(rows)
	if width > 0 && flex >= 0 && flex < len(widths) {
		total := len(gap) * (len(widths) - 1)
		for _, w := range widths {
			total += w
		}
		if over := total - width; over > 0 {
			widths[flex] -= over
			if widths[flex] < 1 {
				widths[flex] = 1
			}
		}
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString(gap)
			}
			if c >= len(widths) {
				b.WriteString(cell)
				continue
			}
			if ansi.StringWidth(cell) > widths[c] {
				cell = ansi.Truncate(cell, widths[c], "…")
			}
			pad := widths[c] - ansi.StringWidth(cell)
			if c < len(alignments) && alignments[c] == AlignRight {
				writeSpaces(&b, pad)
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				if c < len(row)-1 {
					writeSpaces(&b, pad)
				}
			}
		}
		out[i] = b.String()
	}
	return out
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for c, cell := range row {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			if w := ansi.StringWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	return widths
}

func writeSpaces(b *strings.Builder, count int) {
	if count <= 0 {
		return
	}
	b.WriteString(strings.Repeat(" ", count))
}
