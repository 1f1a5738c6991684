package codec

// ICodec is the interface for all compression codecs
type ICodec interface {
	// Name returns the identifier used on the command line (e.g. "deflate")
	Name() string
	// ContentEncoding returns the value for the HTTP Content-Encoding header
	ContentEncoding() string
	// Compress compresses data in one shot
	// No state (dictionary, window) is carried over between calls
	Compress(data []byte) ([]byte, error)
	// Decompress reverses Compress
	Decompress(data []byte) ([]byte, error)
	// DecompressLimit reverses Compress but stops as soon as the output would
	// exceed limit bytes and returns ErrLimitExceeded (limit <= 0 means no limit)
	DecompressLimit(data []byte, limit int) ([]byte, error)
}
