package depreciation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompute_OneYearElapsed(t *testing.T) {
	result := Compute(450.00, date(2024, time.January, 1), date(2025, time.January, 1))

	assert.Equal(t, 12.0, result.MonthsElapsed)
	assert.Equal(t, 12.5, result.MonthlyAmount)
	assert.Equal(t, 150.00, result.Accumulated)
	assert.Equal(t, 300.00, result.CurrentValue)
	assert.Equal(t, 33.33, result.PercentDepreciated)
	assert.Equal(t, UsefulLifeMonths, result.UsefulLifeMonths)
}

func TestCompute_FullyDepreciated(t *testing.T) {
	// 41 months elapsed, beyond the 36 month useful life.
	result := Compute(450.00, date(2021, time.January, 1), date(2024, time.June, 1))

	assert.Equal(t, 41.0, result.MonthsElapsed)
	assert.Equal(t, 450.00, result.Accumulated)
	assert.Equal(t, 0.00, result.CurrentValue)
	assert.Equal(t, 100.00, result.PercentDepreciated)
}

func TestCompute_ZeroCost(t *testing.T) {
	result := Compute(0, date(2024, time.January, 1), date(2025, time.January, 1))

	assert.Equal(t, 0.0, result.Accumulated)
	assert.Equal(t, 0.0, result.CurrentValue)
	assert.Equal(t, 0.0, result.PercentDepreciated, "zero cost must not divide by zero")
}

func TestCompute_SameDay(t *testing.T) {
	result := Compute(1200.00, date(2024, time.March, 15), date(2024, time.March, 15))

	assert.Equal(t, 0.0, result.MonthsElapsed)
	assert.Equal(t, 0.0, result.Accumulated)
	assert.Equal(t, 1200.00, result.CurrentValue)
}

func TestCompute_FractionalMonth(t *testing.T) {
	// One month and ten days: 1 + 10/30 = 1.33 months.
	result := Compute(360.00, date(2024, time.January, 15), date(2024, time.February, 25))

	assert.Equal(t, 1.33, result.MonthsElapsed)
	assert.Equal(t, 10.0, result.MonthlyAmount)
	assert.Equal(t, 13.33, result.Accumulated)
	assert.Equal(t, 346.67, result.CurrentValue)
}

func TestCompute_AsOfBeforePurchase(t *testing.T) {
	result := Compute(450.00, date(2024, time.June, 1), date(2024, time.January, 1))

	assert.Equal(t, 0.0, result.MonthsElapsed)
	assert.Equal(t, 0.0, result.Accumulated)
	assert.Equal(t, 450.00, result.CurrentValue)
}

func TestCompute_Bounds(t *testing.T) {
	purchase := date(2020, time.July, 7)
	costs := []float64{0, 0.01, 99.99, 450, 1500.55}
	asOfs := []time.Time{
		purchase,
		purchase.AddDate(0, 1, 0),
		purchase.AddDate(1, 0, 13),
		purchase.AddDate(3, 0, 0),
		purchase.AddDate(10, 4, 2),
	}

	for _, cost := range costs {
		for _, asOf := range asOfs {
			result := Compute(cost, purchase, asOf)
			assert.GreaterOrEqual(t, result.CurrentValue, 0.0)
			assert.LessOrEqual(t, result.CurrentValue, result.InitialCost)
			assert.GreaterOrEqual(t, result.Accumulated, 0.0)
			assert.LessOrEqual(t, result.Accumulated, result.InitialCost)
		}
	}
}

func TestCompute_MonthEndClamping(t *testing.T) {
	// Purchased on Jan 31; the month anchor clamps to the shorter month
	// instead of rolling into March.
	result := Compute(360.00, date(2024, time.January, 31), date(2024, time.February, 29))

	assert.Equal(t, 1.0, result.MonthsElapsed)
}
