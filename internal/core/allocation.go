package core

// ComputeAllocations splits a monthly total across units by their
// configured expense percentage: amount = total * percentage / 100,
// rounded half-up to two decimals. Percentages are taken as configured;
// they are not required to sum to 100 and no rounding remainder is
// redistributed.
func ComputeAllocations(summary MonthlyExpenseSummary, units []Unit) []ExpenseAllocation {
	allocs := make([]ExpenseAllocation, 0, len(units))
	for _, u := range units {
		amount := summary.TotalExpenses.Mul(u.ExpensePercentage).Div(hundred).Round(2)
		allocs = append(allocs, ExpenseAllocation{
			SummaryID:  summary.ID,
			UnitID:     u.ID,
			Percentage: u.ExpensePercentage,
			Amount:     amount,
		})
	}
	return allocs
}
