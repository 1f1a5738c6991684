// Package measure turns raw byte counts and durations into the numbers shown to
// the operator, and keeps process level metrics about all invocations.
//
// Key Components:
//
//   - ToDisplayUnits: converts before/after byte counts and the compression
//     duration into a MeasurementResult. One MB is 1,048,576 bytes; all values
//     are rounded to 2 decimals.
//
//   - WriteText / WriteJSON: presentation. The text form prints the three values
//     together or nothing at all.
//
//   - Sampler / Stats: statistics over repeated runs (bench command). Percentiles
//     come from a go-metrics histogram.
//
//   - Collector: VictoriaMetrics metric set exported in the Prometheus text
//     format (send --metrics-file, receiver /metrics).
package measure
