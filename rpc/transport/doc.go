// Package transport defines the interfaces for moving an upload between the
// sender and a receiver. It provides a common contract that all transport
// implementations must fulfill, so the upload client does not depend on HTTP
// details.
//
// Key Components:
//
//   - IUploadClientTransport: sends exactly one request per call, no retries.
//
//   - IUploadServerTransport: receives uploads and hands them to a registered
//     ServerHandleFunc.
//
//   - StatusError: the receiver answered with a non-success status. The
//     response body is kept as text for diagnostics.
package transport
