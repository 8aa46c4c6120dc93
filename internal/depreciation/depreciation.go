// Package depreciation implements straight-line book value depreciation
// for inventory devices over a fixed 36 month useful life.
package depreciation

import (
	"math"
	"time"
)

// UsefulLifeMonths is the fixed straight-line depreciation horizon.
const UsefulLifeMonths = 36

// Result is the full depreciation breakdown for a device at a point in time.
// Currency amounts are rounded to 2 decimals for display.
type Result struct {
	InitialCost        float64   `json:"initial_cost"`
	PurchaseDate       time.Time `json:"purchase_date"`
	AsOf               time.Time `json:"as_of"`
	MonthsElapsed      float64   `json:"months_elapsed"`
	UsefulLifeMonths   int       `json:"useful_life_months"`
	MonthlyAmount      float64   `json:"monthly_depreciation"`
	Accumulated        float64   `json:"accumulated_depreciation"`
	CurrentValue       float64   `json:"current_value"`
	PercentDepreciated float64   `json:"percent_depreciated"`
}

// Compute returns the straight-line depreciation of a device purchased at
// initialCost on purchaseDate, evaluated at asOf. Callers computing totals
// over several devices must pass the same asOf to every call so the figures
// agree.
//
// Elapsed time is measured as whole calendar months plus a days/30 fraction.
// The fraction is an approximation kept deliberately, so that the figures
// match the accounting reports already in circulation.
func Compute(initialCost float64, purchaseDate, asOf time.Time) Result {
	months := monthsElapsed(purchaseDate, asOf)
	if months < 0 {
		months = 0
	}

	monthly := initialCost / UsefulLifeMonths

	// Accumulated depreciation never exceeds the initial cost.
	accumulated := math.Min(monthly*months, initialCost)
	current := math.Max(initialCost-accumulated, 0)

	percent := 0.0
	if initialCost > 0 {
		percent = accumulated / initialCost * 100
	}

	return Result{
		InitialCost:        round2(initialCost),
		PurchaseDate:       purchaseDate,
		AsOf:               asOf,
		MonthsElapsed:      round2(months),
		UsefulLifeMonths:   UsefulLifeMonths,
		MonthlyAmount:      round2(monthly),
		Accumulated:        round2(accumulated),
		CurrentValue:       round2(current),
		PercentDepreciated: round2(percent),
	}
}

// monthsElapsed returns the calendar year/month difference between from and
// to, plus the leftover days divided by 30.
func monthsElapsed(from, to time.Time) float64 {
	fy, fm, _ := from.Date()
	ty, tm, _ := to.Date()

	months := (ty-fy)*12 + int(tm) - int(fm)
	if addMonths(from, months).After(to) {
		months--
	}

	anchor := addMonths(from, months)
	days := int(to.Sub(anchor).Hours() / 24)

	return float64(months) + float64(days)/30
}

// addMonths shifts t by the given number of calendar months, clamping the
// day of month instead of letting it overflow into the next month.
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()

	total := y*12 + int(m) - 1 + months
	ny, nm := total/12, time.Month(total%12+1)

	if last := daysIn(ny, nm); d > last {
		d = last
	}
	return time.Date(ny, nm, d, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
