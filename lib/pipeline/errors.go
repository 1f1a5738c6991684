package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvocationInFlight is returned when Run is called on a session whose
// previous invocation has not settled yet
var ErrInvocationInFlight = errors.New("an invocation is already in flight for this session")

// InputParseError means the operator input was rejected before any stage ran
type InputParseError struct {
	// Field is "template" or "count"
	Field string
	Err   error
}

func (e *InputParseError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *InputParseError) Unwrap() error { return e.Err }

// SerializationError means the payload could not be encoded
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization failed: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// CompressionError means the compression transform failed
type CompressionError struct {
	Codec string
	Err   error
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("compression (%s) failed: %v", e.Codec, e.Err)
}

func (e *CompressionError) Unwrap() error { return e.Err }

// TransferError means the upload failed. It never invalidates the measurements.
type TransferError struct {
	Endpoint string
	Err      error
}

func (e *TransferError) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("transfer failed: %v", e.Err)
	}
	return fmt.Sprintf("transfer to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
