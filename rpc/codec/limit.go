package codec

import (
	"errors"
	"fmt"
	"io"
)

// ErrLimitExceeded is returned by DecompressLimit when the output is larger than allowed
var ErrLimitExceeded = errors.New("decompressed size limit exceeded")

// readLimited reads r to the end, but at most limit+1 bytes (limit <= 0 reads everything)
func readLimited(r io.Reader, limit int) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}

	// one extra byte tells "exactly limit" apart from "more than limit"
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if len(data) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrLimitExceeded, limit)
	}
	return data, nil
}
