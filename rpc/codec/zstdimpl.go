package codec

import (
	"errors"
	"fmt"
	"github.com/klauspost/compress/zstd"
)

// NewZstdCodec creates a codec using zstandard
func NewZstdCodec() ICodec {
	return &zstdCodecImpl{}
}

// zstdCodecImpl implements the ICodec interface using zstd.
// Encoder and decoder are created per call, nothing is pooled.
type zstdCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (z *zstdCodecImpl) Name() string {
	return NameZstd
}

func (z *zstdCodecImpl) ContentEncoding() string {
	return "zstd"
}

func (z *zstdCodecImpl) Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithZeroFrames(true))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/4)), nil
}

func (z *zstdCodecImpl) Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

func (z *zstdCodecImpl) DecompressLimit(data []byte, limit int) ([]byte, error) {
	if limit <= 0 {
		return z.Decompress(data)
	}

	// frames declaring a larger content size are rejected before any allocation
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(uint64(limit)))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
		return nil, fmt.Errorf("%w: %v", ErrLimitExceeded, err)
	}
	return out, err
}
