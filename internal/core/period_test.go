package core

import "testing"

func TestPeriodAddMonths(t *testing.T) {
	cases := []struct {
		name string
		in   Period
		n    int
		want Period
	}{
		{"same year", Period{2024, 3}, 2, Period{2024, 5}},
		{"year rollover", Period{2024, 11}, 3, Period{2025, 2}},
		{"december plus one", Period{2024, 12}, 1, Period{2025, 1}},
		{"negative", Period{2024, 1}, -1, Period{2023, 12}},
		{"multi-year", Period{2023, 7}, 18, Period{2025, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.AddMonths(tc.n); !got.Equal(tc.want) {
				t.Errorf("AddMonths(%d) = %v, want %v", tc.n, got, tc.want)
			}
		})
	}
}

func TestPeriodMonthsSince(t *testing.T) {
	if got := (Period{2025, 3}).MonthsSince(Period{2024, 12}); got != 3 {
		t.Errorf("MonthsSince = %d, want 3", got)
	}
	if got := (Period{2024, 6}).MonthsSince(Period{2024, 6}); got != 0 {
		t.Errorf("MonthsSince same period = %d, want 0", got)
	}
}

func TestPeriodValidate(t *testing.T) {
	if err := (Period{2024, 13}).Validate(); err == nil {
		t.Error("expected error for month 13")
	}
	if err := (Period{2024, 0}).Validate(); err == nil {
		t.Error("expected error for month 0")
	}
	if err := (Period{2024, 6}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPeriodOrdering(t *testing.T) {
	a := Period{2024, 12}
	b := Period{2025, 1}
	if !a.Before(b) || b.Before(a) {
		t.Error("2024-12 should sort before 2025-01")
	}
	if !b.After(a) {
		t.Error("2025-01 should sort after 2024-12")
	}
}
