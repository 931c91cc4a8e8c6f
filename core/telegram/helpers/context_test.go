package helpers

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	tests := []struct {
		data    string
		unique  string
		payload string
	}{
		{"\fedit|42", "edit", "42"},
		{"\fmenu", "menu", ""},
		{"edit|42", "edit", "42"},
		{"", "", ""},
		{"\fdelete|123e4567-e89b-42d3-a456-426614174000", "delete", "123e4567-e89b-42d3-a456-426614174000"},
	}
	for _, tt := range tests {
		unique, payload := ParseCallbackData(&tele.Callback{Data: tt.data})
		if unique != tt.unique || payload != tt.payload {
			t.Fatalf("ParseCallbackData(%q) = %q, %q", tt.data, unique, payload)
		}
	}
	if u, p := ParseCallbackData(nil); u != "" || p != "" {
		t.Fatalf("nil callback parsed to %q, %q", u, p)
	}
}
