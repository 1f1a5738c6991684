package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultCount is the replication count used when the operator does not choose one
	DefaultCount = 50000

	// DefaultTemplate is the record used when the operator does not provide one
	DefaultTemplate = `{"unique_key" : "0119434834|000520", "product_id" : "498N5A", "region_id" : "US"}`
)

var (
	// ErrInvalidRecord is returned when the template text is not valid JSON
	ErrInvalidRecord = errors.New("invalid JSON record")
	// ErrCountNotAllowed is returned for replication counts outside AllowedCounts
	ErrCountNotAllowed = errors.New("replication count not allowed")
)

// allowedCounts must stay sorted ascending
var allowedCounts = []int{5000, 20000, 50000, 100000, 500000, 1000000}

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Record is a single JSON value in canonical form (see canonicalize)
type Record json.RawMessage

// MarshalJSON returns the record bytes as they are
func (r Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return r, nil
}

// String returns the JSON text of the record
func (r Record) String() string {
	return string(r)
}

// Payload is the replicated sequence of records that gets serialized
type Payload []Record

// --------------------------------------------------------------------------
// Parsing
// --------------------------------------------------------------------------

// ParseRecord parses the template text and returns the canonical encoding of
// its value. Any JSON value is accepted (object, array, string, number, bool, null).
func ParseRecord(text string) (Record, error) {
	raw := []byte(text)
	if !json.Valid(raw) {
		// decode once more to get a positioned error message
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		return nil, ErrInvalidRecord
	}

	canonical, err := canonicalize(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return canonical, nil
}

// ParseCount parses a replication count and checks it against AllowedCounts
func ParseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrCountNotAllowed, s)
	}
	if err := ValidateCount(n); err != nil {
		return 0, err
	}
	return n, nil
}

// ValidateCount returns an error wrapping ErrCountNotAllowed if n is not an allowed count
func ValidateCount(n int) error {
	if IsAllowedCount(n) {
		return nil
	}
	options := make([]string, len(allowedCounts))
	for i, c := range allowedCounts {
		options[i] = strconv.Itoa(c)
	}
	return fmt.Errorf("%w: %d (must be one of %s)", ErrCountNotAllowed, n, strings.Join(options, ", "))
}

// IsAllowedCount reports whether n is one of the allowed replication counts
func IsAllowedCount(n int) bool {
	for _, c := range allowedCounts {
		if c == n {
			return true
		}
	}
	return false
}

// AllowedCounts returns a copy of the allowed replication counts in ascending order
func AllowedCounts() []int {
	counts := make([]int, len(allowedCounts))
	copy(counts, allowedCounts)
	return counts
}

// --------------------------------------------------------------------------
// Synthesis
// --------------------------------------------------------------------------

// Synthesize replicates record count times. Every element refers to the same
// record bytes.
func Synthesize(record Record, count int) (Payload, error) {
	if err := ValidateCount(count); err != nil {
		return nil, err
	}

	p := make(Payload, count)
	for i := range p {
		p[i] = record
	}
	return p, nil
}
