package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"#", "Time", "Points", "Hits"}
	rows := [][]string{
		{"1", "12.34s", "+40", "Deer"},
		{"10", "5.00s", "-100", "Human Human"},
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != " #   Time Points Hits" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != " 1 12.34s    +40 Deer" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "10  5.00s   -100 Human Human" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Deer Human", 6); got != "Deer …" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncate("Deer", 10); got != "Deer" {
		t.Fatalf("expected short value untouched, got %q", got)
	}
}
