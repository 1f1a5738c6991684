// Package http implements the upload transport over HTTP.
//
// Key Components:
//
//   - httpClientTransport: Implements IUploadClientTransport. It posts the
//     compressed body verbatim to the configured endpoint, once, without retries
//     and without transparent compression. Non-2xx answers become a
//     transport.StatusError carrying the response text.
//
//   - HttpServerTransport: Implements IUploadServerTransport. It accepts POST
//     requests on the upload path, limits the body size and hands the raw body
//     plus headers to the registered handler. Further handlers (for example
//     /metrics) can be mounted on the same mux.
//
// In debug mode the receiver logs every request with its content encoding,
// size, status and duration.
package http
