package measure

import (
	gometrics "github.com/rcrowley/go-metrics"
	"math"
	"time"
)

// ----------------------------------------------------------------------------
// Stats
// ----------------------------------------------------------------------------

type Stats struct {
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	MinMaxRatio  float64 `json:"min_max_ratio"`
}

// NewStats computes the standard deviation, minimum, and maximum values
// from an array of float64 values.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	// initialize min and max with the first value
	min := values[0]
	max := values[0]

	// calculate sum for mean
	var sum float64
	for _, v := range values {
		sum += v

		// update min and max while iterating
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	// calculate mean
	mean := sum / float64(len(values))

	// calculate sum of squared differences from mean
	var sumSquaredDiffs float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}

	// calculate standard deviation (population formula)
	stdDev := math.Sqrt(sumSquaredDiffs / float64(len(values)))

	// calculate min/max ratio
	var minMaxRatio float64 = 1.0
	if max > 0 {
		minMaxRatio = min / max
	}

	return Stats{
		StdDeviation: stdDev,
		Min:          min,
		Max:          max,
		Mean:         mean,
		MinMaxRatio:  minMaxRatio,
	}
}

// ----------------------------------------------------------------------------
// Sampler
// ----------------------------------------------------------------------------

// Summary describes repeated compression timings in seconds
type Summary struct {
	Count int64 `json:"count"`
	Stats
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

// Sampler collects durations of repeated runs. Percentiles come from a
// uniform reservoir, the Stats from every observed value.
type Sampler struct {
	hist   gometrics.Histogram
	values []float64
}

// NewSampler creates a sampler whose reservoir keeps up to reservoirSize values
func NewSampler(reservoirSize int) *Sampler {
	if reservoirSize <= 0 {
		reservoirSize = 1028
	}
	return &Sampler{
		hist: gometrics.NewHistogram(gometrics.NewUniformSample(reservoirSize)),
	}
}

// Observe records one duration
func (s *Sampler) Observe(d time.Duration) {
	s.hist.Update(d.Nanoseconds())
	s.values = append(s.values, d.Seconds())
}

// Summary returns the statistics of all observed durations
func (s *Sampler) Summary() Summary {
	// take a consistent view of the histogram
	snapshot := s.hist.Snapshot()
	if snapshot.Count() == 0 {
		return Summary{}
	}

	// percentiles are in nanoseconds
	ps := snapshot.Percentiles([]float64{0.5, 0.95, 0.99})
	return Summary{
		Count: snapshot.Count(),
		Stats: NewStats(s.values),
		P50:   ps[0] / float64(time.Second),
		P95:   ps[1] / float64(time.Second),
		P99:   ps[2] / float64(time.Second),
	}
}
