package common

import (
	"fmt"
	"github.com/cespare/xxhash/v2"
	"strings"
)

// --------------------------------------------------------------------------
// Upload protocol
// --------------------------------------------------------------------------

// Header names and values exchanged between sender and receiver
const (
	HeaderContentType     = "Content-Type"
	HeaderContentEncoding = "Content-Encoding"
	HeaderCompressed      = "X-Content-Compressed"
	HeaderChecksum        = "X-Content-Checksum"
	HeaderRequestID       = "X-Request-Id"

	ContentTypeOctetStream = "application/octet-stream"
	CompressedTrue         = "true"

	checksumPrefix = "xxh64:"
)

// UploadRequest is a single upload, independent of the transport carrying it
type UploadRequest struct {
	// Header holds the request headers (canonical names, see the Header constants)
	Header map[string]string
	// Body is sent verbatim
	Body []byte
}

// UploadResponse is the receiver's answer
type UploadResponse struct {
	StatusCode int
	Body       []byte
}

// NewUploadRequest creates the request for an already compressed body.
// raw is the uncompressed data and is only used for the checksum (pass nil to omit it).
func NewUploadRequest(body []byte, contentEncoding, requestID string, raw []byte) *UploadRequest {
	header := map[string]string{
		HeaderContentType:     ContentTypeOctetStream,
		HeaderContentEncoding: contentEncoding,
		HeaderCompressed:      CompressedTrue,
	}
	if requestID != "" {
		header[HeaderRequestID] = requestID
	}
	if raw != nil {
		header[HeaderChecksum] = Checksum(raw)
	}
	return &UploadRequest{Header: header, Body: body}
}

// IsCompressed reports whether the marker header says the body is compressed
func IsCompressed(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), CompressedTrue)
}

// Checksum returns the X-Content-Checksum value for data
func Checksum(data []byte) string {
	return fmt.Sprintf("%s%016x", checksumPrefix, xxhash.Sum64(data))
}

// VerifyChecksum compares an X-Content-Checksum value with data
func VerifyChecksum(value string, data []byte) error {
	if !strings.HasPrefix(value, checksumPrefix) {
		return fmt.Errorf("unsupported checksum %q", value)
	}
	if expected := Checksum(data); !strings.EqualFold(value, expected) {
		return fmt.Errorf("checksum mismatch: got %s, computed %s", value, expected)
	}
	return nil
}
