package flow

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func asValidation(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	return verr
}

func TestNonEmptyString(t *testing.T) {
	v := NonEmptyString()

	got, err := v("  hello  ")
	if err != nil || got != "hello" {
		t.Fatalf("got %v, %v", got, err)
	}
	for _, raw := range []string{"", "   ", "\n\t"} {
		if _, err := v(raw); err == nil {
			t.Fatalf("accepted %q", raw)
		}
	}
}

func TestBoundedInt(t *testing.T) {
	v := BoundedInt(1, 150)

	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"30", 30, true},
		{" 1 ", 1, true},
		{"150", 150, true},
		{"0", 0, false},
		{"151", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
		{"3.5", 0, false},
	}
	for _, tt := range tests {
		got, err := v(tt.raw)
		if tt.ok {
			if err != nil || got != tt.want {
				t.Fatalf("BoundedInt(%q) = %v, %v", tt.raw, got, err)
			}
			continue
		}
		asValidation(t, err)
	}
}

func TestDateTime(t *testing.T) {
	v := DateTime(EventDateLayout)

	got, err := v("31.12.2026 18:30")
	if err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	want := time.Date(2026, 12, 31, 18, 30, 0, 0, time.Local)
	if ts := got.(time.Time); !ts.Equal(want) {
		t.Fatalf("parsed %v, want %v", ts, want)
	}

	_, err = v("2026-12-31 18:30")
	verr := asValidation(t, err)
	if !strings.Contains(verr.Msg, "DD.MM.YYYY HH:MM") {
		t.Fatalf("hint missing from %q", verr.Msg)
	}
}

func TestCategoryRef(t *testing.T) {
	v := CategoryRef(testResolver)

	got, err := v(" Tech ")
	if err != nil || got != techID {
		t.Fatalf("got %v, %v", got, err)
	}

	_, err = v("Knitting")
	verr := asValidation(t, err)
	if !strings.Contains(verr.Msg, "Knitting") {
		t.Fatalf("message does not echo the input: %q", verr.Msg)
	}
}
