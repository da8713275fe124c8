package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12.34", "12.34", false},
		{"12,34", "12.34", false},
		{" 1500 ", "1500", false},
		{"12.345", "12.35", false}, // half-up on the third decimal
		{"12.344", "12.34", false},
		{"0", "", true},
		{"-5", "", true},
		{"abc", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q): expected error, got %s", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tc.in, err)
			continue
		}
		want, _ := decimal.NewFromString(tc.want)
		if !got.Equal(want) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, want)
		}
	}
}

func TestParsePercentage(t *testing.T) {
	if _, err := ParsePercentage("60"); err != nil {
		t.Errorf("ParsePercentage(60): %v", err)
	}
	if _, err := ParsePercentage("0"); err != nil {
		t.Errorf("zero percent is a valid configuration: %v", err)
	}
	if _, err := ParsePercentage("100.01"); err == nil {
		t.Error("expected error above 100")
	}
	if _, err := ParsePercentage("-1"); err == nil {
		t.Error("expected error for negative percentage")
	}
}

func TestSumAmounts(t *testing.T) {
	expenses := []Expense{
		{Amount: decimal.RequireFromString("100.50")},
		{Amount: decimal.RequireFromString("49.50")},
		{Amount: decimal.RequireFromString("0.01")},
	}
	if got := SumAmounts(expenses); !got.Equal(decimal.RequireFromString("150.01")) {
		t.Errorf("SumAmounts = %s, want 150.01", got)
	}
	if got := SumAmounts(nil); !got.Equal(decimal.Zero) {
		t.Errorf("SumAmounts(nil) = %s, want 0", got)
	}
}
