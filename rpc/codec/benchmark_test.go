package codec

import (
	"testing"
)

// BenchmarkCompress benchmarks compression of a repetitive payload for all codecs
func BenchmarkCompress(b *testing.B) {
	data := repetitivePayload(100000)

	for name, factory := range testCodecs {
		b.Run(name, func(b *testing.B) {
			c := factory()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := c.Compress(data); err != nil {
					b.Fatalf("Failed to compress: %v", err)
				}
			}
		})
	}
}

// BenchmarkDecompress benchmarks decompression for all codecs
func BenchmarkDecompress(b *testing.B) {
	data := repetitivePayload(100000)

	for name, factory := range testCodecs {
		c := factory()
		compressed, err := c.Compress(data)
		if err != nil {
			b.Fatalf("Failed to compress: %v", err)
		}

		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := c.Decompress(compressed); err != nil {
					b.Fatalf("Failed to decompress: %v", err)
				}
			}
		})
	}
}
