package flow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidationError reports user input that cannot be coerced into the step's
// field type. It is always recovered locally: the engine re-prompts the same
// step and never surfaces it as a system failure.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ValidateFunc coerces a raw text value into a typed value. Validators are
// pure: failure never mutates anything.
type ValidateFunc func(raw string) (any, error)

// NonEmptyString rejects empty and whitespace-only input.
func NonEmptyString() ValidateFunc {
	return func(raw string) (any, error) {
		s := strings.TrimSpace(raw)
		if s == "" {
			return nil, validationf("This field cannot be empty. Please try again.")
		}
		return s, nil
	}
}

// BoundedInt rejects non-numeric input and values outside [min, max].
func BoundedInt(min, max int) ValidateFunc {
	return func(raw string) (any, error) {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, validationf("Please enter a valid number.")
		}
		if n < min || n > max {
			return nil, validationf("Please enter a number between %d and %d.", min, max)
		}
		return n, nil
	}
}

// DateTime rejects input that does not parse with the given layout.
func DateTime(layout string) ValidateFunc {
	hint := hintForLayout(layout)
	return func(raw string) (any, error) {
		t, err := time.ParseInLocation(layout, strings.TrimSpace(raw), time.Local)
		if err != nil {
			return nil, validationf("Invalid date and time format. Please use %s", hint)
		}
		return t, nil
	}
}

// CategoryRef resolves free text against a finite set of category names.
// Unresolved input is an error, never a fallback.
func CategoryRef(resolve func(name string) (uuid.UUID, bool)) ValidateFunc {
	return func(raw string) (any, error) {
		name := strings.TrimSpace(raw)
		if id, ok := resolve(name); ok {
			return id, nil
		}
		return nil, validationf("Unknown category %q. Please choose one of the offered categories.", name)
	}
}

func hintForLayout(layout string) string {
	r := strings.NewReplacer(
		"02", "DD",
		"01", "MM",
		"2006", "YYYY",
		"15", "HH",
		"04", "MM",
	)
	return r.Replace(layout)
}
