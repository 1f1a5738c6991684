package client

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/plbench/rpc/common"
	"github.com/ValentinKolb/plbench/rpc/transport"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// Upload describes a single compressed payload to deliver
type Upload struct {
	// Body is the compressed payload, sent verbatim
	Body []byte
	// ContentEncoding is the codec's content encoding (e.g. "deflate")
	ContentEncoding string
	// RequestID is sent as X-Request-Id; a random UUID is used when empty
	RequestID string
	// Raw is the uncompressed payload, only read when checksums are enabled
	Raw []byte
}

// UploadClient sends compressed payloads to a receiver through a transport
type UploadClient struct {
	config    common.ClientConfig
	transport transport.IUploadClientTransport
}

// NewUploadClient creates an upload client and connects the transport
//
// Usage:
//
//	c, err := client.NewUploadClient(
//		common.ClientConfig{Endpoint: common.DefaultEndpoint},
//		http.NewHttpClientTransport(),
//	)
//	ack, err := c.Upload(ctx, client.Upload{Body: compressed, ContentEncoding: "deflate"})
func NewUploadClient(config common.ClientConfig, t transport.IUploadClientTransport) (*UploadClient, error) {
	if err := t.Connect(config); err != nil {
		return nil, err
	}
	return &UploadClient{
		config:    config,
		transport: t,
	}, nil
}

// Upload posts the payload once and returns the receiver's acknowledgement text
func (c *UploadClient) Upload(ctx context.Context, u Upload) (string, error) {
	if u.ContentEncoding == "" {
		return "", fmt.Errorf("content encoding must be set")
	}

	requestID := u.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	var raw []byte
	if c.config.Checksum {
		raw = u.Raw
		if raw == nil {
			raw = []byte{}
		}
	}

	req := common.NewUploadRequest(u.Body, u.ContentEncoding, requestID, raw)

	Logger.Debugf("Uploading %d bytes (%s) as %s", len(u.Body), u.ContentEncoding, requestID)

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return "", err
	}

	return string(resp.Body), nil
}

// Endpoint returns the configured upload target
func (c *UploadClient) Endpoint() string {
	return c.config.Endpoint
}

// Close closes the underlying transport
func (c *UploadClient) Close() error {
	return c.transport.Close()
}
