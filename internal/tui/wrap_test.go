package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func plainCells(text string) []cell {
	return appendCells(nil, text, lipgloss.NewStyle())
}

func TestCompareCellsCursor(t *testing.T) {
	cells := compareCells([]rune("ab"), []rune("a"))
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if cells[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if cells[1].s != cursorStyle.Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestCompareCellsMistakes(t *testing.T) {
	cells := compareCells([]rune("Ab c"), []rune("abxc"))
	if cells[0].s != caseStyle.Render("A") {
		t.Fatalf("expected case style for lowercase a against A")
	}
	if cells[1].s != correctStyle.Render("b") {
		t.Fatalf("expected correct style for b")
	}
	if cells[2].s != incorrectStyle.Render("•") {
		t.Fatalf("expected red dot for wrong space")
	}
}

func TestCompareCellsPending(t *testing.T) {
	cells := compareCells([]rune("abc"), nil)
	if cells[0].s != cursorStyle.Render("a") || cells[2].s != pendingStyle.Render("c") {
		t.Fatalf("expected cursor then pending styles")
	}
}

func TestWrapCellsBreaksAtSpace(t *testing.T) {
	got := wrapCells(plainCells("one two three"), 8)
	if got != "one two\nthree" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestWrapCellsSplitsLongWord(t *testing.T) {
	got := wrapCells(plainCells("abcdefgh"), 3)
	if got != "abc\ndef\ngh" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestWrapCellsWideRunes(t *testing.T) {
	got := wrapCells(plainCells("日本 語"), 4)
	if strings.Count(got, "\n") != 1 {
		t.Fatalf("expected one break, got %q", got)
	}
}

func TestWrapCellsNoWidth(t *testing.T) {
	if got := wrapCells(plainCells("a b"), 0); got != "a b" {
		t.Fatalf("unexpected output %q", got)
	}
}
