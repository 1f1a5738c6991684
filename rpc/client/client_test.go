package client

import (
	"context"
	"errors"
	"testing"

	"github.com/ValentinKolb/plbench/rpc/common"
)

// recordingTransport is an in-memory transport recording the last request
type recordingTransport struct {
	connected bool
	last      *common.UploadRequest
	sends     int
	err       error
}

func (r *recordingTransport) Connect(common.ClientConfig) error {
	r.connected = true
	return nil
}

func (r *recordingTransport) Send(_ context.Context, req *common.UploadRequest) (*common.UploadResponse, error) {
	r.sends++
	r.last = req
	if r.err != nil {
		return nil, r.err
	}
	return &common.UploadResponse{StatusCode: 200, Body: []byte("ok")}, nil
}

func (r *recordingTransport) Close() error {
	r.connected = false
	return nil
}

// TestUploadHeaders tests the headers describing the compressed body
func TestUploadHeaders(t *testing.T) {
	rt := &recordingTransport{}
	c, err := NewUploadClient(common.ClientConfig{Endpoint: "http://receiver"}, rt)
	if err != nil {
		t.Fatalf("NewUploadClient failed: %v", err)
	}
	if !rt.connected {
		t.Fatal("Transport should be connected")
	}

	ack, err := c.Upload(context.Background(), Upload{Body: []byte{1, 2}, ContentEncoding: "deflate", RequestID: "abc", Raw: []byte("[]")})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if ack != "ok" {
		t.Errorf("Expected ack ok, got %q", ack)
	}

	h := rt.last.Header
	if h[common.HeaderContentType] != "application/octet-stream" ||
		h[common.HeaderContentEncoding] != "deflate" ||
		h[common.HeaderCompressed] != "true" ||
		h[common.HeaderRequestID] != "abc" {
		t.Errorf("Unexpected headers %v", h)
	}
	if _, ok := h[common.HeaderChecksum]; ok {
		t.Error("Checksum should only be sent when enabled")
	}
	if rt.sends != 1 {
		t.Errorf("Expected one send, got %d", rt.sends)
	}

	if err := c.Close(); err != nil || rt.connected {
		t.Errorf("Close should close the transport (err %v)", err)
	}
}

// TestUploadChecksumAndRequestID tests the optional headers
func TestUploadChecksumAndRequestID(t *testing.T) {
	rt := &recordingTransport{}
	c, _ := NewUploadClient(common.ClientConfig{Checksum: true}, rt)

	raw := []byte(`[{"a":1}]`)
	if _, err := c.Upload(context.Background(), Upload{Body: []byte{9}, ContentEncoding: "gzip", Raw: raw}); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if err := common.VerifyChecksum(rt.last.Header[common.HeaderChecksum], raw); err != nil {
		t.Errorf("Checksum header does not match the raw data: %v", err)
	}
	if id := rt.last.Header[common.HeaderRequestID]; len(id) != 36 {
		t.Errorf("Expected a generated UUID, got %q", id)
	}
}

// TestUploadErrors tests that transport errors are passed through without retries
func TestUploadErrors(t *testing.T) {
	rt := &recordingTransport{err: errors.New("connection refused")}
	c, _ := NewUploadClient(common.ClientConfig{}, rt)

	if _, err := c.Upload(context.Background(), Upload{Body: []byte{1}, ContentEncoding: "deflate"}); err == nil {
		t.Error("Upload should fail")
	}
	if rt.sends != 1 {
		t.Errorf("Expected exactly one send, got %d", rt.sends)
	}

	if _, err := c.Upload(context.Background(), Upload{Body: []byte{1}}); err == nil {
		t.Error("Upload without content encoding should fail")
	}
}
