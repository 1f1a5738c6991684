package transport

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/plbench/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming uploads
// This function is called by a server transport layer when a request is received
type ServerHandleFunc func(req *common.UploadRequest) *common.UploadResponse

// IUploadServerTransport is the interface for the receiving side
type IUploadServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called when an upload is received
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and listens for incoming requests
	Listen(config common.ServerConfig) error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IUploadClientTransport is the interface for the sending side
type IUploadClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send delivers exactly one request and returns the response
	// Implementations must not retry
	Send(ctx context.Context, req *common.UploadRequest) (*common.UploadResponse, error)
	// Close closes the transport connection
	Close() error
}

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

// StatusError is returned by client transports for non-success responses
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upload rejected: %s", e.Status)
	}
	return fmt.Sprintf("upload rejected: %s: %s", e.Status, e.Body)
}
