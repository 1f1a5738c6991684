// Package codec provides the compression step of the measurement pipeline. It
// defines a common interface for one-shot compression and a registry of
// implementations backed by well known libraries.
//
// Key Components:
//
//   - ICodec: Core interface. Implementations are stateless between calls, every
//     Compress starts a fresh stream.
//
//   - deflate: zlib wrapped deflate (klauspost/compress/zlib). This is the
//     default and what receivers expect for "Content-Encoding: deflate".
//
//   - gzip, zstd (klauspost/compress), br (andybalholm/brotli) and snappy
//     (golang/snappy): alternatives for comparing ratios and latency.
//
//   - Registry: codecs are looked up by name (command line) or by content
//     encoding (receiver side).
//
//   - CompressTimed: runs Compress and measures only the compression call.
//
// Thread Safety:
//
//	Codecs and the registry are safe for concurrent use.
package codec
