package analytics

import (
	"math"
	"sort"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// Severity grades how far an anomalous amount sits from its category mean.
type Severity string

const (
	SeverityModerate Severity = "moderate" // at least threshold sigma
	SeverityHigh     Severity = "high"     // at least highSeveritySigma
)

// highSeveritySigma is the deviation at which a flag escalates to high.
const highSeveritySigma = 3.0

// MinAnomalySample is the minimum number of expense transactions a category
// needs before its distribution supports a z-score.
const MinAnomalySample = 3

// AnomalyFlag marks one expense transaction as a statistical outlier within
// its category. Mean, StdDev and Z are expressed in currency units.
type AnomalyFlag struct {
	Transaction core.Transaction
	Mean        float64
	StdDev      float64
	Z           float64
	Severity    Severity
}

// SkipReason explains why a category was excluded from detection.
type SkipReason string

const (
	SkipInsufficientSample SkipReason = "insufficient_sample"
	SkipZeroVariance       SkipReason = "zero_variance"
)

// SkippedCategory records a category the detector could not score.
type SkippedCategory struct {
	Category string
	Reason   SkipReason
	Samples  int
}

// DetectResult carries the flags of one detection run plus the categories
// that were skipped. Skips are reported rather than silently dropped so a
// caller can tell "no anomalies" from "not enough data to say".
type DetectResult struct {
	Flags   []AnomalyFlag
	Skipped []SkippedCategory
}

// Detect flags expense transactions whose amount deviates from their
// category's mean by at least opts.Threshold standard deviations, over the
// trailing opts.WindowMonths window. Each category is scored against its
// own distribution only. Categories with fewer than MinAnomalySample
// expenses, or with zero variance, are reported as skipped. Flags are
// ordered by descending deviation; ties break on date then description so
// repeated runs over the same snapshot produce identical output.
func Detect(snap *ledger.Snapshot, opts Options) DetectResult {
	opts = opts.withDefaults()

	var result DetectResult
	if snap == nil || snap.Empty() {
		return result
	}

	byCategory := make(map[string][]core.Transaction)
	for _, tx := range snap.InWindow(opts.WindowMonths) {
		if tx.Type != core.Expense {
			continue
		}
		byCategory[tx.Category] = append(byCategory[tx.Category], tx)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, c := range categories {
		txs := byCategory[c]
		if len(txs) < MinAnomalySample {
			result.Skipped = append(result.Skipped, SkippedCategory{
				Category: c,
				Reason:   SkipInsufficientSample,
				Samples:  len(txs),
			})
			continue
		}

		amounts := make([]float64, len(txs))
		for i, tx := range txs {
			amounts[i] = tx.Amount.Units()
		}
		m := mean(amounts)
		sd := sampleStdDev(amounts)
		if sd == 0 {
			result.Skipped = append(result.Skipped, SkippedCategory{
				Category: c,
				Reason:   SkipZeroVariance,
				Samples:  len(txs),
			})
			continue
		}

		for i, tx := range txs {
			z := (amounts[i] - m) / sd
			if math.Abs(z) < opts.Threshold {
				continue
			}
			severity := SeverityModerate
			if math.Abs(z) >= highSeveritySigma {
				severity = SeverityHigh
			}
			result.Flags = append(result.Flags, AnomalyFlag{
				Transaction: tx,
				Mean:        m,
				StdDev:      sd,
				Z:           z,
				Severity:    severity,
			})
		}
	}

	sort.SliceStable(result.Flags, func(i, j int) bool {
		zi, zj := math.Abs(result.Flags[i].Z), math.Abs(result.Flags[j].Z)
		if zi != zj {
			return zi > zj
		}
		ti, tj := result.Flags[i].Transaction, result.Flags[j].Transaction
		if !ti.Date.Equal(tj.Date.Time) {
			return ti.Date.Before(tj.Date.Time)
		}
		return ti.Description < tj.Description
	})
	return result
}
