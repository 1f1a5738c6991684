package codec

import (
	"fmt"
	"github.com/lni/dragonboat/v4/logger"
	"time"
)

var Logger = logger.GetLogger("codec")

// Result is the output of an instrumented compression
type Result struct {
	// Data is the compressed payload
	Data []byte
	// AfterBytes is len(Data)
	AfterBytes int
	// Elapsed is the wall clock duration of the Compress call alone
	Elapsed time.Duration
}

// CompressTimed compresses data with c and measures the duration of the
// compression call. time.Now carries a monotonic reading, so the result does
// not jump with wall clock adjustments.
func CompressTimed(c ICodec, data []byte) (Result, error) {
	start := time.Now()
	compressed, err := c.Compress(data)
	elapsed := time.Since(start)

	if err != nil {
		return Result{}, fmt.Errorf("%s compression failed: %w", c.Name(), err)
	}

	Logger.Debugf("%s: compressed %d -> %d bytes in %s", c.Name(), len(data), len(compressed), elapsed)

	return Result{
		Data:       compressed,
		AfterBytes: len(compressed),
		Elapsed:    elapsed,
	}, nil
}
