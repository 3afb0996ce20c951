package stats

import (
	"bytes"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Gesture", "Keys", "Count"}
	rows := [][]string{
		{"select", "9+0", "12"},
		{"delete-char", "1+2", "3"},
	}
	rightAlign := map[int]bool{2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Gesture     Keys Count" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "select      9+0     12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "delete-char 1+2      3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestWriteTableTrimsTrailingSpace(t *testing.T) {
	var buf bytes.Buffer
	if err := writeTable(&buf, "Title", []string{"Word", "N"}, [][]string{{"a", ""}}, nil); err != nil {
		t.Fatalf("writeTable failed: %v", err)
	}
	expected := "Title\nWord N\na\n\n"
	if buf.String() != expected {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
