package phone

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw    string
		region string
		want   string
	}{
		{"70 00 00 01", "", "+22670000001"},
		{"+22670000001", "", "+22670000001"},
		{"0022670000004", "", "+22670000004"},
		{"+33 6 12 34 56 78", "", "+33612345678"},
		{"06 12 34 56 78", "FR", "+33612345678"},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.raw, tt.region)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalize_Rejects(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "12"} {
		if _, err := Normalize(raw, ""); !errors.Is(err, ErrInvalidNumber) {
			t.Fatalf("Normalize(%q): expected ErrInvalidNumber, got %v", raw, err)
		}
	}
}
