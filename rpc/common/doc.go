// Package common provides the data structures and utilities shared by the
// sending and the receiving side of plbench.
//
// The package focuses on:
//   - The upload protocol: header names, request and response structures
//   - Configuration structures for the upload client and the reference receiver
//   - Custom logging implementation integrated with Dragonboat's logger package
//
// Key Components:
//
//   - UploadRequest / UploadResponse: transport independent representation of a
//     single upload. NewUploadRequest sets Content-Type, Content-Encoding and the
//     X-Content-Compressed marker so receivers never have to sniff the body.
//
//   - Checksum / VerifyChecksum: optional end-to-end integrity check using xxh64
//     of the uncompressed bytes, carried in X-Content-Checksum.
//
//   - ClientConfig / ServerConfig: configuration with a String() rendering that is
//     printed at startup.
//
//   - Logger: every package gets its logger via logger.GetLogger(name).
//     InitLoggers installs the formatting factory and the configured level.
package common
