package codec

import (
	"bytes"
	"fmt"
	"github.com/klauspost/compress/gzip"
)

// NewGzipCodec creates a codec using gzip
func NewGzipCodec() ICodec {
	return &gzipCodecImpl{}
}

// gzipCodecImpl implements the ICodec interface using gzip
type gzipCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (g *gzipCodecImpl) Name() string {
	return NameGzip
}

func (g *gzipCodecImpl) ContentEncoding() string {
	return "gzip"
}

func (g *gzipCodecImpl) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *gzipCodecImpl) Decompress(data []byte) ([]byte, error) {
	return g.DecompressLimit(data, 0)
}

func (g *gzipCodecImpl) DecompressLimit(data []byte, limit int) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer r.Close()
	return readLimited(r, limit)
}
