// Package report provides the read-side aggregation templates over the gold
// model: cumulative totals, trailing moving averages, period-over-period
// deltas, part-to-whole contribution and tiered segmentation. These are pure
// derivations with no state of their own.
package report

// Point is one period's aggregated measure, ordered by the caller.
type Point struct {
	Period string
	Value  float64
}

// Direction classifies a period-over-period change.
type Direction string

const (
	Increase Direction = "Increase"
	Decrease Direction = "Decrease"
	NoChange Direction = "No Change"
)

// Delta is one period's measure with its change against the prior period.
// The first period has no prior and reports NoChange with a zero delta.
type Delta struct {
	Period    string    `json:"period"`
	Value     float64   `json:"value"`
	Change    float64   `json:"change"`
	Direction Direction `json:"direction"`
}

// RunningTotal computes the cumulative sum over ordered points. When
// resetPerPeriod is true the accumulator restarts whenever the period label
// changes (e.g. monthly points labeled by year).
func RunningTotal(points []Point, resetPerPeriod bool) []float64 {
	out := make([]float64, len(points))
	var sum float64
	for i, p := range points {
		if resetPerPeriod && i > 0 && p.Period != points[i-1].Period {
			sum = 0
		}
		sum += p.Value
		out[i] = sum
	}
	return out
}

// MovingAverage computes a trailing moving average with a fixed window. Rows
// earlier than a full window average whatever is available so far.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// PeriodDeltas computes period-over-period changes with directional
// classification.
func PeriodDeltas(points []Point) []Delta {
	out := make([]Delta, len(points))
	for i, p := range points {
		d := Delta{Period: p.Period, Value: p.Value, Direction: NoChange}
		if i > 0 {
			d.Change = p.Value - points[i-1].Value
			switch {
			case d.Change > 0:
				d.Direction = Increase
			case d.Change < 0:
				d.Direction = Decrease
			}
		}
		out[i] = d
	}
	return out
}

// Contribution computes each point's part-to-whole ratio. A zero total
// yields all-zero ratios rather than a division error.
func Contribution(points []Point) []float64 {
	var total float64
	for _, p := range points {
		total += p.Value
	}
	out := make([]float64, len(points))
	if total == 0 {
		return out
	}
	for i, p := range points {
		out[i] = p.Value / total
	}
	return out
}
