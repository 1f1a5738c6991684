package payload

import (
	"bytes"
	"errors"
	"testing"
)

// TestParseRecordAcceptsAnyJSONValue tests that every kind of JSON value is a valid record
func TestParseRecordAcceptsAnyJSONValue(t *testing.T) {
	tests := map[string]string{
		"object":       `{"a":1}`,
		"empty object": `{}`,
		"array":        `[1,2,3]`,
		"string":       `"hello"`,
		"number":       `42.5`,
		"bool":         `true`,
		"null":         `null`,
	}

	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			rec, err := ParseRecord(text)
			if err != nil {
				t.Fatalf("ParseRecord(%q) failed: %v", text, err)
			}
			if rec.String() != text {
				t.Errorf("Expected %q, got %q", text, rec.String())
			}
		})
	}
}

// TestParseRecordCompacts tests that whitespace is removed while member order is kept
func TestParseRecordCompacts(t *testing.T) {
	rec, err := ParseRecord(DefaultTemplate)
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}

	expected := `{"unique_key":"0119434834|000520","product_id":"498N5A","region_id":"US"}`
	if rec.String() != expected {
		t.Errorf("Expected %s, got %s", expected, rec.String())
	}
}

// TestParseRecordCanonicalForm tests that records are re-encoded the way JSON.stringify(JSON.parse(text)) does
func TestParseRecordCanonicalForm(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"trailing zero fraction", `{"a":1.0}`, `{"a":1}`},
		{"exponent", `{"a":1e2}`, `{"a":100}`},
		{"negative exponent", `[1E-7,0.000001,2.50]`, `[1e-7,0.000001,2.5]`},
		{"large exponent", `1e21`, `1e+21`},
		{"large integer", `12345678901234567890`, `12345678901234567000`},
		{"negative zero", `-0.0`, `0`},
		{"out of range", `[1e400,-1e400,1e-400]`, `[null,null,0]`},
		{"unicode escape", `{"name":"\u00e9"}`, `{"name":"é"}`},
		{"html characters", `"\u003ca&b\u003e"`, `"<a&b>"`},
		{"escaped slash", `"a\/b"`, `"a/b"`},
		{"control characters", `"\u0001\u0008\n"`, `"\u0001\b\n"`},
		{"duplicate key", `{"a":1,"b":2,"a":3}`, `{"a":3,"b":2}`},
		{"index keys first", `{"b":1,"10":2,"2":3,"01":4}`, `{"2":3,"10":2,"b":1,"01":4}`},
		{"nested", `{ "x" : [ {"y":1.50} , true , null ] }`, `{"x":[{"y":1.5},true,null]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecord(tt.text)
			if err != nil {
				t.Fatalf("ParseRecord(%q) failed: %v", tt.text, err)
			}
			if rec.String() != tt.expected {
				t.Errorf("ParseRecord(%q) = %s, want %s", tt.text, rec, tt.expected)
			}
		})
	}
}

// TestParseRecordRejectsInvalidJSON tests malformed templates
func TestParseRecordRejectsInvalidJSON(t *testing.T) {
	for _, text := range []string{`{"a":`, ``, `   `, `{a:1}`, `[1,2`, `{"a":1}}`} {
		rec, err := ParseRecord(text)
		if err == nil {
			t.Errorf("ParseRecord(%q) should fail, got %q", text, rec)
			continue
		}
		if !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("ParseRecord(%q) error should wrap ErrInvalidRecord, got %v", text, err)
		}
	}
}

// TestSynthesize tests that the payload has the requested length and every element equals the record
func TestSynthesize(t *testing.T) {
	rec, err := ParseRecord(`{"a":1}`)
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}

	for _, count := range AllowedCounts() {
		p, err := Synthesize(rec, count)
		if err != nil {
			t.Fatalf("Synthesize(%d) failed: %v", count, err)
		}
		if len(p) != count {
			t.Fatalf("Expected length %d, got %d", count, len(p))
		}
		for _, i := range []int{0, count / 2, count - 1} {
			if !bytes.Equal(p[i], rec) {
				t.Errorf("Element %d = %s, want %s", i, p[i], rec)
			}
		}
	}
}

// TestSynthesizeRejectsCounts tests counts outside the enumeration
func TestSynthesizeRejectsCounts(t *testing.T) {
	rec, _ := ParseRecord(`{}`)

	for _, count := range []int{-1, 0, 1, 4999, 5001, 2000000} {
		if _, err := Synthesize(rec, count); !errors.Is(err, ErrCountNotAllowed) {
			t.Errorf("Synthesize(%d) should fail with ErrCountNotAllowed, got %v", count, err)
		}
	}
}

// TestParseCount tests parsing of the replication count
func TestParseCount(t *testing.T) {
	n, err := ParseCount(" 20000 ")
	if err != nil {
		t.Fatalf("ParseCount failed: %v", err)
	}
	if n != 20000 {
		t.Errorf("Expected 20000, got %d", n)
	}

	for _, s := range []string{"abc", "", "123", "1e6"} {
		if _, err := ParseCount(s); !errors.Is(err, ErrCountNotAllowed) {
			t.Errorf("ParseCount(%q) should fail with ErrCountNotAllowed, got %v", s, err)
		}
	}
}

// TestAllowedCountsIsACopy tests that callers cannot change the enumeration
func TestAllowedCountsIsACopy(t *testing.T) {
	counts := AllowedCounts()
	counts[0] = 1

	if IsAllowedCount(1) {
		t.Error("Modifying the returned slice should not change the allowed counts")
	}
	if !IsAllowedCount(DefaultCount) {
		t.Errorf("DefaultCount %d should be allowed", DefaultCount)
	}
}
