package identity

import "testing"

func TestFromTelegramIDDeterministic(t *testing.T) {
	a := FromTelegramID(123456789)
	b := FromTelegramID(123456789)
	if a != b {
		t.Fatalf("same id produced different UUIDs: %s vs %s", a, b)
	}
}

func TestFromTelegramIDDistinct(t *testing.T) {
	a := FromTelegramID(1)
	b := FromTelegramID(2)
	if a == b {
		t.Fatalf("distinct ids collided: %s", a)
	}
}

func TestFromTelegramIDValidRFC4122(t *testing.T) {
	u := FromTelegramID(987654321)
	if got := u.Version(); got != 4 {
		t.Fatalf("version = %d, want 4", got)
	}
	if u.Variant().String() != "RFC4122" {
		t.Fatalf("variant = %s, want RFC4122", u.Variant())
	}
}
