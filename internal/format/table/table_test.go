package table

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestFormatPadsColumns(t *testing.T) {
	rows := [][]string{
		{"Id", "Name", "Size"},
		{"1", "debian.iso", "650 MB"},
		{"12", "x", "1 GB"},
	}
	got := Format(rows, []Alignment{AlignRight, AlignLeft, AlignRight})
	want := []string{
		"Id  Name          Size",
		" 1  debian.iso  650 MB",
		"12  x             1 GB",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestFormatMeasuresWideRunes(t *testing.T) {
	rows := [][]string{{"日本", "a"}, {"ab", "b"}}
	got := Format(rows, nil)
	if ansi.StringWidth(got[0]) != ansi.StringWidth(got[1]) {
		t.Fatalf("expected equal widths, got %q and %q", got[0], got[1])
	}
}

func TestFitTruncatesFlexColumn(t *testing.T) {
	rows := [][]string{
		{"1", "a very long torrent name that will not fit", "Done"},
		{"2", "short", "01:00:00"},
	}
	got := Fit(rows, nil, 30, 1)
	for i, line := range got {
		if w := ansi.StringWidth(line); w > 30 {
			t.Fatalf("row %d: expected at most 30 cells, got %d (%q)", i, w, line)
		}
	}
	if !strings.Contains(got[0], "…") {
		t.Fatalf("expected ellipsis in truncated cell, got %q", got[0])
	}
	if !strings.HasSuffix(got[1], "01:00:00") {
		t.Fatalf("expected trailing column intact, got %q", got[1])
	}
}

func TestFitLeavesNarrowRowsAlone(t *testing.T) {
	rows := [][]string{{"a", "b"}}
	if got := Fit(rows, nil, 80, 0); got[0] != "a  b" {
		t.Fatalf("expected unchanged row, got %q", got[0])
	}
}

func TestFormatEmpty(t *testing.T) {
	if Format(nil, nil) != nil {
		t.Fatalf("expected nil for no rows")
	}
}
