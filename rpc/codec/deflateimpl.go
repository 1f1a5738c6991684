package codec

import (
	"bytes"
	"fmt"
	"github.com/klauspost/compress/zlib"
)

// NewDeflateCodec creates a codec producing zlib wrapped deflate streams.
// This is the format HTTP means by "Content-Encoding: deflate".
func NewDeflateCodec() ICodec {
	return &deflateCodecImpl{level: zlib.DefaultCompression}
}

// NewDeflateCodecLevel creates a deflate codec with an explicit compression level
func NewDeflateCodecLevel(level int) (ICodec, error) {
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		return nil, fmt.Errorf("invalid deflate level %d", level)
	}
	return &deflateCodecImpl{level: level}, nil
}

// deflateCodecImpl implements the ICodec interface using zlib
type deflateCodecImpl struct {
	level int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (d *deflateCodecImpl) Name() string {
	return NameDeflate
}

func (d *deflateCodecImpl) ContentEncoding() string {
	return "deflate"
}

func (d *deflateCodecImpl) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, d.level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("deflate write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate close: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *deflateCodecImpl) Decompress(data []byte) ([]byte, error) {
	return d.DecompressLimit(data, 0)
}

func (d *deflateCodecImpl) DecompressLimit(data []byte, limit int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("deflate reader: %w", err)
	}
	defer r.Close()
	return readLimited(r, limit)
}
