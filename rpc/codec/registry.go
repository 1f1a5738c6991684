package codec

import (
	"fmt"
	"github.com/puzpuzpuz/xsync/v3"
	"sort"
	"strings"
)

const (
	NameDeflate = "deflate"
	NameGzip    = "gzip"
	NameZstd    = "zstd"
	NameBrotli  = "br"
	NameSnappy  = "snappy"

	// NameDefault is the codec used when none is configured
	NameDefault = NameDeflate
)

// Factory creates a fresh codec instance
type Factory func() ICodec

var registry = xsync.NewMapOf[string, Factory]()

func init() {
	Register(NameDeflate, NewDeflateCodec)
	Register(NameGzip, NewGzipCodec)
	Register(NameZstd, NewZstdCodec)
	Register(NameBrotli, NewBrotliCodec)
	Register(NameSnappy, NewSnappyCodec)
}

// Register adds (or replaces) a codec factory under the given name
func Register(name string, factory Factory) {
	registry.Store(strings.ToLower(name), factory)
}

// Get returns a new codec for the given name
func Get(name string) (ICodec, error) {
	factory, ok := registry.Load(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return nil, fmt.Errorf("unknown codec %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return factory(), nil
}

// ForContentEncoding returns the codec whose ContentEncoding matches enc
func ForContentEncoding(enc string) (ICodec, bool) {
	enc = strings.ToLower(strings.TrimSpace(enc))

	var found ICodec
	registry.Range(func(_ string, factory Factory) bool {
		c := factory()
		if c.ContentEncoding() == enc {
			found = c
			return false
		}
		return true
	})

	return found, found != nil
}

// Names returns the registered codec names in alphabetical order
func Names() []string {
	names := make([]string, 0, registry.Size())
	registry.Range(func(name string, _ Factory) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}
