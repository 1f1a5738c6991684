package codec

import (
	"fmt"
	"github.com/golang/snappy"
)

// NewSnappyCodec creates a codec using the snappy block format
func NewSnappyCodec() ICodec {
	return &snappyCodecImpl{}
}

// snappyCodecImpl implements the ICodec interface using snappy
type snappyCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (s *snappyCodecImpl) Name() string {
	return NameSnappy
}

func (s *snappyCodecImpl) ContentEncoding() string {
	return "snappy"
}

func (s *snappyCodecImpl) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (s *snappyCodecImpl) Decompress(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}

func (s *snappyCodecImpl) DecompressLimit(data []byte, limit int) ([]byte, error) {
	// the block header carries the decoded length, check it before allocating
	n, err := snappy.DecodedLen(data)
	if err != nil {
		return nil, err
	}
	if limit > 0 && n > limit {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrLimitExceeded, n, limit)
	}
	return snappy.Decode(nil, data)
}
