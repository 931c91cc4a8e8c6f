package logger

import (
	"strings"
	"testing"
	"time"
)

func TestSanitizeLimit(t *testing.T) {
	got := SanitizeLimit("  hello\nworld  ", 64)
	if got != "hello world" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	long := strings.Repeat("x", 100)
	if got := SanitizeLimit(long, 10); len(got) != 10 {
		t.Fatalf("expected truncation to 10, got %d", len(got))
	}
}

func TestSummarizeStrings(t *testing.T) {
	values := []string{"a", "b", "c", "d"}
	joined, truncated := SummarizeStrings(values, 2)
	if joined != "a, b" || !truncated {
		t.Fatalf("SummarizeStrings = %q truncated=%v", joined, truncated)
	}
	joined, truncated = SummarizeStrings(values, 10)
	if joined != "a, b, c, d" || truncated {
		t.Fatalf("SummarizeStrings = %q truncated=%v", joined, truncated)
	}
}

func TestRoundMS(t *testing.T) {
	if got := RoundMS(1500 * time.Microsecond); got != 2*time.Millisecond {
		t.Fatalf("RoundMS = %v", got)
	}
	if got := RoundMS(-time.Second); got != 0 {
		t.Fatalf("RoundMS negative = %v", got)
	}
}
