package session

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"national nine digits", "612345678", "34612345678"},
		{"already prefixed", "34612345678", "34612345678"},
		{"whatsapp chat id", "34612345678@s.whatsapp.net", "34612345678"},
		{"formatted with spaces", "612 34 56 78", "34612345678"},
		{"plus sign prefix", "+34612345678", "34612345678"},
		{"foreign prefix keeps last nine", "49612345678", "34612345678"},
		{"short number passes through", "12345", "12345"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.raw)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"612345678", "34612345678", "+34 612 345 678", "34612345678@s.whatsapp.net"}
	for _, raw := range inputs {
		once := NormalizePhone(raw)
		twice := NormalizePhone(once)
		if once != twice {
			t.Errorf("NormalizePhone not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestNationalNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"34612345678", "612345678"},
		{"612345678", "612345678"},
		{"34612345678@s.whatsapp.net", "612345678"},
	}
	for _, tt := range tests {
		if got := NationalNumber(tt.raw); got != tt.want {
			t.Errorf("NationalNumber(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
