package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustmentFrequencyMonths(t *testing.T) {
	assert.Equal(t, 1, AdjustMonthly.Months())
	assert.Equal(t, 3, AdjustQuarterly.Months())
	assert.Equal(t, 6, AdjustSemiannual.Months())
	assert.Equal(t, 12, AdjustAnnual.Months())
	assert.Error(t, AdjustmentFrequency("weekly").Validate())
}

func TestContractValidate(t *testing.T) {
	valid := Contract{
		UnitID:      1,
		ResidentID:  1,
		Start:       Period{2025, 1},
		End:         Period{2026, 12},
		InitialRent: dec("100000"),
		Index:       IndexICL,
		Frequency:   AdjustQuarterly,
	}
	assert.NoError(t, valid.Validate())

	endBeforeStart := valid
	endBeforeStart.End = Period{2024, 12}
	assert.Error(t, endBeforeStart.Validate())

	zeroRent := valid
	zeroRent.InitialRent = dec("0")
	assert.ErrorIs(t, zeroRent.Validate(), ErrInvalidAmount)

	badIndex := valid
	badIndex.Index = IndexKind("uva")
	assert.Error(t, badIndex.Validate())
}

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		PropertyID:  1,
		Description: "Limpieza",
		Amount:      dec("2500.50"),
		Period:      Period{2025, 8},
	}
	assert.NoError(t, valid.Validate())

	empty := valid
	empty.Description = "  "
	assert.ErrorIs(t, empty.Validate(), ErrEmptyDescription)

	negative := valid
	negative.Amount = dec("-10")
	assert.ErrorIs(t, negative.Validate(), ErrInvalidAmount)

	badPeriod := valid
	badPeriod.Period = Period{2025, 0}
	assert.ErrorIs(t, badPeriod.Validate(), ErrInvalidPeriod)
}

func TestUnitValidate(t *testing.T) {
	assert.NoError(t, Unit{Label: "PB A", ExpensePercentage: dec("12.5")}.Validate())
	assert.ErrorIs(t, Unit{Label: "1A", ExpensePercentage: dec("101")}.Validate(), ErrInvalidPercentage)
	assert.ErrorIs(t, Unit{Label: "", ExpensePercentage: dec("10")}.Validate(), ErrEmptyName)
}

func TestIndexValueValidate(t *testing.T) {
	assert.NoError(t, IndexValue{Kind: IndexICL, Period: Period{2025, 1}, Value: dec("123.45")}.Validate())
	// The synthetic average kind never carries published values.
	assert.Error(t, IndexValue{Kind: IndexAverage, Period: Period{2025, 1}, Value: dec("1")}.Validate())
	assert.Error(t, IndexValue{Kind: IndexIPC, Period: Period{2025, 1}, Value: dec("0")}.Validate())
}
