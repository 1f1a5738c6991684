// Package server implements the reference receiver for compressed uploads.
// It accepts the POST requests produced by the upload client, so the whole
// send path can be exercised locally without the public endpoint.
//
// Key Components:
//
//   - UploadServer: decodes each upload according to its headers, verifies the
//     optional X-Content-Checksum and acknowledges the number of records.
//     Uploads without "X-Content-Compressed: true" are read as plain JSON.
//
//   - Totals: running counters (xsync.Counter) of accepted and rejected uploads,
//     records and bytes.
//
// Responses:
//
//	200  received <n> records (<compressed> bytes compressed, <raw> bytes raw)
//	400  body cannot be decompressed or is not a JSON array
//	413  decompressed body exceeds the configured limit
//	415  unknown Content-Encoding
//	422  checksum mismatch
//
// Usage Example:
//
//	s := server.NewUploadServer(
//	  common.ServerConfig{Endpoint: "0.0.0.0:8080", UploadPath: "/upload-compressed"},
//	  http.NewHttpServerTransport(),
//	  measure.NewCollector(),
//	)
//	if err := s.Serve(); err != nil {
//	  log.Fatal(err)
//	}
//
// With the HTTP transport the collector is also served on GET /metrics.
package server
