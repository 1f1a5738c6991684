// Package serializer turns a synthesized payload into the byte sequence that gets
// compressed and uploaded. It defines a common interface so the pipeline does not
// depend on a concrete encoding.
//
// Key Components:
//
//   - IPayloadSerializer: Core interface that all serializer implementations must satisfy.
//
//   - jsonSerializerImpl: Compact JSON array text, without HTML escaping and
//     without a trailing newline, so the output matches what a browser's
//     JSON.stringify produces for the same records.
//
//   - Serialize: Helper returning the bytes together with their length. The
//     length is the byte length, multi-byte UTF-8 characters count once per byte.
//
// Thread Safety:
//
//	Serializers are stateless and safe for concurrent use.
//
// Usage:
//
//	s := serializer.NewJSONSerializer()
//	data, beforeBytes, err := serializer.Serialize(s, p)
package serializer
