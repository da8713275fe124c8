package core

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// IndexSeries holds published index values keyed by kind and period.
type IndexSeries map[IndexKind]map[Period]decimal.Decimal

func NewIndexSeries(values []IndexValue) IndexSeries {
	s := make(IndexSeries)
	for _, v := range values {
		if s[v.Kind] == nil {
			s[v.Kind] = make(map[Period]decimal.Decimal)
		}
		s[v.Kind][v.Period] = v.Value
	}
	return s
}

func (s IndexSeries) value(kind IndexKind, p Period) (decimal.Decimal, bool) {
	v, ok := s[kind][p]
	return v, ok
}

// factor returns value(at)/value(base) for a published kind. For the
// synthetic average kind it is the mean of the ICL and IPC factors,
// which requires both series to cover both periods.
func (s IndexSeries) factor(kind IndexKind, base, at Period) (decimal.Decimal, bool) {
	if kind == IndexAverage {
		icl, ok := s.factor(IndexICL, base, at)
		if !ok {
			return decimal.Zero, false
		}
		ipc, ok := s.factor(IndexIPC, base, at)
		if !ok {
			return decimal.Zero, false
		}
		return icl.Add(ipc).Div(two), true
	}
	baseVal, ok := s.value(kind, base)
	if !ok || !baseVal.IsPositive() {
		return decimal.Zero, false
	}
	atVal, ok := s.value(kind, at)
	if !ok {
		return decimal.Zero, false
	}
	return atVal.Div(baseVal), true
}

// RentPeriod is one row of a contract's rent schedule.
type RentPeriod struct {
	Period Period `json:"period"`
	// Amount due for the period, after all adjustments so far.
	Amount decimal.Decimal `json:"amount"`
	// Factor is the cumulative adjustment applied since the contract
	// start (1 until the first boundary).
	Factor decimal.Decimal `json:"factor"`
	// Adjusted marks the boundary periods where a new factor was applied.
	Adjusted bool `json:"adjusted"`
	// MissingIndex marks a boundary whose index value is unpublished;
	// the previous rent carries over and the base period is kept, so the
	// next boundary catches up over the longer window.
	MissingIndex bool `json:"missing_index,omitempty"`
}

// ComputeRentSchedule produces the per-period rent amounts for a
// contract. At every adjustment boundary (each Frequency.Months() after
// the start) the rent is multiplied by index(boundary)/index(window
// base) and the window base moves to the boundary. Amounts are rounded
// half-up to two decimals.
func ComputeRentSchedule(c Contract, series IndexSeries) []RentPeriod {
	rent := c.InitialRent.Round(2)
	cumulative := decimal.NewFromInt(1)
	windowBase := c.Start
	step := c.Frequency.Months()

	var schedule []RentPeriod
	for p := c.Start; !p.After(c.End); p = p.AddMonths(1) {
		row := RentPeriod{Period: p}
		elapsed := p.MonthsSince(c.Start)
		if elapsed > 0 && elapsed%step == 0 {
			if f, ok := series.factor(c.Index, windowBase, p); ok {
				rent = rent.Mul(f).Round(2)
				cumulative = cumulative.Mul(f)
				windowBase = p
				row.Adjusted = true
			} else {
				row.MissingIndex = true
			}
		}
		row.Amount = rent
		row.Factor = cumulative
		schedule = append(schedule, row)
	}
	return schedule
}
