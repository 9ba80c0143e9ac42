package analytics

import (
	"sort"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// MinProjectionPoints is the minimum number of monthly observations a
// category needs before a regression line is meaningful.
const MinProjectionPoints = 3

// ProjectionResult holds the fitted trend line of one category measure and
// the forecast it implies. Slope and Intercept are in currency units per
// month index; Monthly holds one forecast per future month, never negative.
// Confidence grows with observed history and caps at 1.0 once a full year
// backs the fit.
type ProjectionResult struct {
	Category    string
	Measure     core.TxType
	Slope       float64
	Intercept   float64
	R2          float64
	Confidence  float64
	Monthly     []core.Money
	AnnualTotal core.Money
}

// Project fits an ordinary least-squares line to the monthly series of one
// category measure and extrapolates it over the horizon. The input grid
// must come from Aggregate, which guarantees a contiguous monthly index.
// Months are indexed 0..n-1 in chronological order; the forecast for
// offset k ahead evaluates the line at n-1+k. Negative forecasts clamp to
// zero. A category with fewer than MinProjectionPoints months fails with
// an error matching ErrInsufficientHistory.
func Project(aggs []MonthlyAggregate, category string, measure core.TxType, horizonMonths int) (ProjectionResult, error) {
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}

	var series []float64
	for _, a := range aggs {
		if a.Category != category {
			continue
		}
		series = append(series, core.Money{Cents: a.measure(measure)}.Units())
	}
	if len(series) < MinProjectionPoints {
		return ProjectionResult{}, &InsufficientHistoryError{
			Category: category,
			Points:   len(series),
			Min:      MinProjectionPoints,
		}
	}

	n := float64(len(series))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	// R-squared against the fitted line. A flat series fits itself
	// perfectly, so zero total variance counts as 1.
	yMean := sumY / n
	var ssRes, ssTot float64
	for i, y := range series {
		fit := intercept + slope*float64(i)
		ssRes += (y - fit) * (y - fit)
		ssTot += (y - yMean) * (y - yMean)
	}
	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	result := ProjectionResult{
		Category:   category,
		Measure:    measure,
		Slope:      slope,
		Intercept:  intercept,
		R2:         r2,
		Confidence: clamp01(n / 12),
		Monthly:    make([]core.Money, 0, horizonMonths),
	}

	lastIndex := n - 1
	var annualUnits float64
	for k := 1; k <= horizonMonths; k++ {
		forecast := intercept + slope*(lastIndex+float64(k))
		if forecast < 0 {
			forecast = 0
		}
		result.Monthly = append(result.Monthly, core.Money{Cents: core.CentsFromUnits(forecast)})
		if k <= 12 {
			annualUnits += forecast
		}
	}
	if horizonMonths < 12 {
		// Extrapolate a year from the horizon's monthly average.
		annualUnits = annualUnits / float64(horizonMonths) * 12
	}
	result.AnnualTotal = core.Money{Cents: core.CentsFromUnits(annualUnits)}
	return result, nil
}

// ProjectAll projects every category present in the grid, skipping the ones
// with too little history. The error map records each skipped category.
func ProjectAll(aggs []MonthlyAggregate, measure core.TxType, horizonMonths int) ([]ProjectionResult, map[string]error) {
	seen := make(map[string]bool)
	var categories []string
	for _, a := range aggs {
		if !seen[a.Category] {
			seen[a.Category] = true
			categories = append(categories, a.Category)
		}
	}
	sort.Strings(categories)

	var results []ProjectionResult
	failures := make(map[string]error)
	for _, c := range categories {
		res, err := Project(aggs, c, measure, horizonMonths)
		if err != nil {
			failures[c] = err
			continue
		}
		results = append(results, res)
	}
	return results, failures
}

// months returns the chronological month index of the grid, one entry per
// distinct month.
func months(aggs []MonthlyAggregate) []ledger.Month {
	var out []ledger.Month
	for _, a := range aggs {
		if len(out) == 0 || out[len(out)-1] != a.Month {
			if len(out) > 0 && !out[len(out)-1].Before(a.Month) {
				continue
			}
			out = append(out, a.Month)
		}
	}
	return out
}
