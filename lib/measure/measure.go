package measure

import (
	"math"
	"time"
)

// BytesPerMB is the size of one reported megabyte (a binary mebibyte)
const BytesPerMB = 1024 * 1024

// Raw holds the unrounded measurements of one invocation
type Raw struct {
	BeforeBytes int           `json:"before_bytes"`
	AfterBytes  int           `json:"after_bytes"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// MeasurementResult is the triple shown to the operator, each value rounded to 2 decimals
type MeasurementResult struct {
	BeforeSizeMB   float64 `json:"before_size_mb"`
	AfterSizeMB    float64 `json:"after_size_mb"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// ToDisplayUnits converts raw byte counts and the compression duration into display units
func ToDisplayUnits(beforeBytes, afterBytes int, elapsed time.Duration) MeasurementResult {
	return MeasurementResult{
		BeforeSizeMB:   BytesToMB(beforeBytes),
		AfterSizeMB:    BytesToMB(afterBytes),
		ElapsedSeconds: round2(elapsed.Seconds()),
	}
}

// Result converts r into display units
func (r Raw) Result() MeasurementResult {
	return ToDisplayUnits(r.BeforeBytes, r.AfterBytes, r.Elapsed)
}

// Ratio returns AfterBytes / BeforeBytes (0 for an empty input)
func (r Raw) Ratio() float64 {
	if r.BeforeBytes == 0 {
		return 0
	}
	return float64(r.AfterBytes) / float64(r.BeforeBytes)
}

// Reduction returns the saved share in percent (negative if the data grew)
func (r Raw) Reduction() float64 {
	if r.BeforeBytes == 0 {
		return 0
	}
	return (1 - r.Ratio()) * 100
}

// BytesToMB converts bytes to MB rounded to 2 decimals
func BytesToMB(b int) float64 {
	return round2(float64(b) / BytesPerMB)
}

// round2 rounds half away from zero to 2 fractional digits
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
