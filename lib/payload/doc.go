// Package payload builds the bulk payloads that plbench measures. It parses the
// operator's JSON template into a Record and replicates that record into a
// Payload of one of the allowed sizes.
//
// The package focuses on:
//   - Validating operator input before any measurement starts
//   - Bounding memory use by restricting the replication count to a fixed set
//   - Building payloads without copying the record for every element
//
// Key Components:
//
//   - Record: a JSON value in canonical form, the text JSON.stringify would
//     produce after JSON.parse: shortest numbers, minimal string escapes, last
//     duplicate member wins. Member order is kept (array index keys first).
//
//   - Payload: an ordered slice of Records. All elements share the same backing
//     bytes, nothing downstream mutates them.
//
//   - AllowedCounts: the enumeration of replication counts (5000 up to 1000000).
//
// Usage:
//
//	rec, err := payload.ParseRecord(`{"a":1}`)
//	if err != nil {
//		// invalid template, nothing else should run
//	}
//	p, err := payload.Synthesize(rec, 5000)
package payload
