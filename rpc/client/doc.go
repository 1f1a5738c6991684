// Package client implements the transfer step of plbench: it wraps an upload
// transport and builds the request headers that describe the compressed body.
//
// Every upload carries:
//   - Content-Type: application/octet-stream
//   - Content-Encoding: the codec's encoding (deflate by default)
//   - X-Content-Compressed: true
//   - X-Request-Id: the invocation ID (random UUID if none is given)
//   - X-Content-Checksum: xxh64 of the uncompressed bytes, only when enabled
//
// There are no retries. The acknowledgement is the receiver's response body as
// text and is not validated.
//
// Usage Example:
//
//	c, err := client.NewUploadClient(
//		common.ClientConfig{Endpoint: "http://localhost:8080/upload-compressed"},
//		http.NewHttpClientTransport(),
//	)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	ack, err := c.Upload(ctx, client.Upload{Body: compressed, ContentEncoding: "deflate"})
package client
