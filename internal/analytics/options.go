// Package analytics implements the derived-signal engine: monthly trend
// aggregation, anomalous-transaction detection, least-squares projection and
// the composite financial health score. Every function is a pure computation
// over a ledger.Snapshot; configuration travels with each call and nothing
// is cached between runs, so concurrent analyses need no coordination.
package analytics

// Defaults for the caller-overridable configuration surface.
const (
	// DefaultWindowMonths is the trailing analysis window, ending at the
	// latest transaction month.
	DefaultWindowMonths = 12

	// DefaultThreshold is the anomaly threshold in standard deviations.
	// 2.0 is the standard statistical convention (~95% one-tailed
	// confidence under normality; an approximation, since real spending
	// is not normally distributed).
	DefaultThreshold = 2.0

	// DefaultHorizonMonths is how far the projection extrapolates.
	DefaultHorizonMonths = 12
)

// Weights maps the three score factors to their share of the 100-point
// total. The default split is 40/30/30.
type Weights struct {
	Savings         float64
	Diversification float64
	Consistency     float64
}

// DefaultWeights returns the standard 40/30/30 factor split.
func DefaultWeights() Weights {
	return Weights{Savings: 40, Diversification: 30, Consistency: 30}
}

// Options carries the per-call configuration for an analysis run.
// Zero values fall back to the documented defaults.
type Options struct {
	WindowMonths  int
	Threshold     float64
	HorizonMonths int
	Weights       Weights
}

// DefaultOptions returns the fully populated default configuration.
func DefaultOptions() Options {
	return Options{
		WindowMonths:  DefaultWindowMonths,
		Threshold:     DefaultThreshold,
		HorizonMonths: DefaultHorizonMonths,
		Weights:       DefaultWeights(),
	}
}

// withDefaults fills any zero field with its default value.
func (o Options) withDefaults() Options {
	if o.WindowMonths <= 0 {
		o.WindowMonths = DefaultWindowMonths
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.HorizonMonths <= 0 {
		o.HorizonMonths = DefaultHorizonMonths
	}
	if o.Weights == (Weights{}) {
		o.Weights = DefaultWeights()
	}
	return o
}
