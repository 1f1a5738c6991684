package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// --------------------------------------------------------------------------
// Canonical form
// --------------------------------------------------------------------------

/*
	Note: the canonical form is what JSON.parse followed by JSON.stringify yields
	for the same text, so the serialized size matches the browser's:
	  - numbers in shortest round-trip form (1.0 -> 1, 1e2 -> 100, -0 -> 0)
	  - numbers beyond the float64 range become null
	  - strings re-escaped minimally, no HTML or \u escapes for printable runes
	  - duplicate members: the last value wins, at the position of the first
	  - array index keys ("0", "1", ...) first in ascending order, then the
	    other members in insertion order
*/

// canonicalize parses text and returns the canonical encoding of its value
func canonicalize(text string) ([]byte, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	out, err := canonicalValue(dec)
	if err != nil {
		return nil, err
	}

	// exactly one value is allowed
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after the top-level value")
	}
	return out, nil
}

// canonicalValue reads the next value from dec and encodes it
func canonicalValue(dec *json.Decoder) ([]byte, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return canonicalObject(dec)
		case '[':
			return canonicalArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return appendString(nil, t), nil
	case json.Number:
		return canonicalNumber(t)
	case bool:
		return strconv.AppendBool(nil, t), nil
	case nil:
		return []byte("null"), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func canonicalObject(dec *json.Decoder) ([]byte, error) {
	var keys []string
	members := make(map[string][]byte)

	for dec.More() {
		// read key
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}

		// read value
		value, err := canonicalValue(dec)
		if err != nil {
			return nil, err
		}

		// last value wins, first position is kept
		if _, seen := members[key]; !seen {
			keys = append(keys, key)
		}
		members[key] = value
	}

	// consume '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	// index keys move to the front in numeric order
	sort.SliceStable(keys, func(i, j int) bool {
		ni, iIdx := arrayIndex(keys[i])
		nj, jIdx := arrayIndex(keys[j])
		if iIdx && jIdx {
			return ni < nj
		}
		return iIdx && !jIdx
	})

	out := []byte{'{'}
	for i, key := range keys {
		if i > 0 {
			out = append(out, ',')
		}
		out = appendString(out, key)
		out = append(out, ':')
		out = append(out, members[key]...)
	}
	return append(out, '}'), nil
}

func canonicalArray(dec *json.Decoder) ([]byte, error) {
	out := []byte{'['}
	for i := 0; dec.More(); i++ {
		value, err := canonicalValue(dec)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, value...)
	}

	// consume ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return append(out, ']'), nil
}

// canonicalNumber formats n the way JSON.stringify formats a JS number
func canonicalNumber(n json.Number) ([]byte, error) {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, err
	}

	switch {
	case math.IsInf(f, 0) || math.IsNaN(f):
		return []byte("null"), nil
	case f == 0:
		// also -0
		return []byte("0"), nil
	}

	// encoding/json formats float64 with the ES6 number-to-string rules
	return json.Marshal(f)
}

// arrayIndex reports whether key is a canonical array index (0 .. 2^32-2)
func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	return n, true
}

// appendString appends s as a JSON string literal with the escapes of JSON.stringify
func appendString(out []byte, s string) []byte {
	const hex = "0123456789abcdef"

	out = append(out, '"')
	for _, r := range s {
		switch r {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\b':
			out = append(out, '\\', 'b')
		case '\f':
			out = append(out, '\\', 'f')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		default:
			if r < 0x20 {
				out = append(out, '\\', 'u', '0', '0', hex[r>>4], hex[r&0xf])
				continue
			}
			out = utf8.AppendRune(out, r)
		}
	}
	return append(out, '"')
}
