package indices

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/franalderete7/expenzo-sub000/internal/core"
)

func TestParseIndexRows(t *testing.T) {
	values := [][]interface{}{
		{"Periodo", "Valor"},
		{"2025-01", "100"},
		{"2025-02", "105,5"},
		{"2025/03", "110.25"},
		{"", ""},
	}

	got, err := parseIndexRows(values, core.IndexICL)
	if err != nil {
		t.Fatalf("parseIndexRows() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[1].Period != (core.Period{Year: 2025, Month: 2}) {
		t.Errorf("period = %v, want 2025-02", got[1].Period)
	}
	if !got[1].Value.Equal(decimal.RequireFromString("105.5")) {
		t.Errorf("value = %s, want 105.5", got[1].Value)
	}
	if got[2].Kind != core.IndexICL {
		t.Errorf("kind = %s, want icl", got[2].Kind)
	}
}

func TestParseIndexRowsNoHeader(t *testing.T) {
	values := [][]interface{}{
		{"2024-12", "98.7"},
	}

	got, err := parseIndexRows(values, core.IndexIPC)
	if err != nil {
		t.Fatalf("parseIndexRows() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
}

func TestParseIndexRowsBadPeriod(t *testing.T) {
	values := [][]interface{}{
		{"Periodo", "Valor"},
		{"enero 2025", "100"},
	}

	if _, err := parseIndexRows(values, core.IndexICL); err == nil {
		t.Fatal("expected error for malformed period")
	}
}

func TestParseIndexRowsBadValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"non-numeric", "cien"},
		{"zero", "0"},
		{"negative", "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := [][]interface{}{{"2025-01", tt.value}}
			if _, err := parseIndexRows(values, core.IndexICL); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseIndexRowsMonthOutOfRange(t *testing.T) {
	values := [][]interface{}{{"2025-13", "100"}}
	if _, err := parseIndexRows(values, core.IndexICL); err == nil {
		t.Fatal("expected error for month 13")
	}
}

func TestParseIndexRowsBadFirstRowNotAHeader(t *testing.T) {
	// A numeric value cell marks the first row as data, so its broken
	// period must be reported rather than skipped.
	tests := []struct {
		name   string
		period string
	}{
		{"month out of range", "2025-13"},
		{"swapped parts", "01-2025"},
		{"no separator", "202501"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := [][]interface{}{{tt.period, "105,5"}}
			if _, err := parseIndexRows(values, core.IndexICL); err == nil {
				t.Fatal("expected error for bad first row")
			}
		})
	}
}
