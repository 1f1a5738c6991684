package codec

import (
	"bytes"
	"fmt"
	"github.com/andybalholm/brotli"
)

// NewBrotliCodec creates a codec using brotli at its default quality
func NewBrotliCodec() ICodec {
	return &brotliCodecImpl{}
}

// brotliCodecImpl implements the ICodec interface using brotli
type brotliCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (b *brotliCodecImpl) Name() string {
	return NameBrotli
}

func (b *brotliCodecImpl) ContentEncoding() string {
	return "br"
}

func (b *brotliCodecImpl) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("brotli write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("brotli close: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *brotliCodecImpl) Decompress(data []byte) ([]byte, error) {
	return b.DecompressLimit(data, 0)
}

func (b *brotliCodecImpl) DecompressLimit(data []byte, limit int) ([]byte, error) {
	return readLimited(brotli.NewReader(bytes.NewReader(data)), limit)
}
