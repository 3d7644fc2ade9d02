package cmd

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"45000", 45000},
		{"45.000", 45000},
		{"45,000", 45000},
		{"50k", 50000},
		{"500k", 500000},
		{"2m", 2_000_000},
		{"1tr", 1_000_000},
		{"1tr2", 1_200_000},
		{"1tr25", 1_250_000},
		{"2m5", 2_500_000},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		if err != nil {
			t.Errorf("parseAmount(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAmount(%q): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseAmountRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "0", "-500", "k5"} {
		if _, err := parseAmount(in); err == nil {
			t.Errorf("parseAmount(%q): expected error", in)
		}
	}
}
