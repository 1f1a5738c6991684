package measure

import (
	"fmt"
	vm "github.com/VictoriaMetrics/metrics"
	"io"
	"time"
)

// Collector exports measurements in the Prometheus text format.
// Each collector owns its own metric set, so several can live in one process.
type Collector struct {
	set *vm.Set
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{set: vm.NewSet()}
}

// ObserveCompression records the sizes and the duration of one compression
func (c *Collector) ObserveCompression(codec string, raw Raw) {
	c.set.GetOrCreateHistogram(fmt.Sprintf(`plbench_compress_duration_seconds{codec=%q}`, codec)).Update(raw.Elapsed.Seconds())
	c.set.GetOrCreateCounter(fmt.Sprintf(`plbench_payload_bytes_total{codec=%q,stage="before"}`, codec)).Add(raw.BeforeBytes)
	c.set.GetOrCreateCounter(fmt.Sprintf(`plbench_payload_bytes_total{codec=%q,stage="after"}`, codec)).Add(raw.AfterBytes)
	c.set.GetOrCreateFloatCounter(fmt.Sprintf(`plbench_compress_seconds_total{codec=%q}`, codec)).Add(raw.Elapsed.Seconds())
}

// ObserveTransfer records the outcome and the duration of one upload
func (c *Collector) ObserveTransfer(codec string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	c.set.GetOrCreateCounter(fmt.Sprintf(`plbench_transfers_total{codec=%q,status=%q}`, codec, status)).Inc()
	c.set.GetOrCreateHistogram(fmt.Sprintf(`plbench_transfer_duration_seconds{codec=%q}`, codec)).Update(elapsed.Seconds())
}

// ObserveFailure counts invocations that ended before any measurement was produced
func (c *Collector) ObserveFailure(stage string) {
	c.set.GetOrCreateCounter(fmt.Sprintf(`plbench_invocation_failures_total{stage=%q}`, stage)).Inc()
}

// ObserveUpload records an upload seen by the receiver
func (c *Collector) ObserveUpload(encoding string, compressedBytes, rawBytes int, status int) {
	c.set.GetOrCreateCounter(fmt.Sprintf(`plbench_received_uploads_total{encoding=%q,status="%d"}`, encoding, status)).Inc()
	c.set.GetOrCreateCounter(fmt.Sprintf(`plbench_received_bytes_total{encoding=%q,stage="compressed"}`, encoding)).Add(compressedBytes)
	c.set.GetOrCreateCounter(fmt.Sprintf(`plbench_received_bytes_total{encoding=%q,stage="raw"}`, encoding)).Add(rawBytes)
}

// WritePrometheus writes all metrics of the collector to w
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}
