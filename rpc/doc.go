// Package rpc provides the communication layer of plbench: everything that
// turns a payload into bytes on the wire and back.
//
// The package is organized into several subpackages:
//
//   - common: Shared configuration structures, the upload protocol (header
//     names, request and response types, checksums) and logging.
//
//   - serializer: Payload serialization (JSON) producing the bytes whose
//     length is reported as the size before compression.
//
//   - codec: Compression codecs (deflate, gzip, zstd, br, snappy), a registry
//     keyed by name and Content-Encoding, and timed compression.
//
//   - transport: Network communication abstractions with a pluggable HTTP
//     implementation.
//
//   - client: The upload client, which sets the protocol headers and sends a
//     compressed payload exactly once.
//
//   - server: The reference receiver that decodes and acknowledges uploads.
package rpc
