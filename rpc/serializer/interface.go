package serializer

import "github.com/ValentinKolb/plbench/lib/payload"

// IPayloadSerializer is the interface for all payload serializers
type IPayloadSerializer interface {
	// Name returns the identifier of the encoding (e.g. "json")
	Name() string
	// Serialize encodes the whole payload into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(p payload.Payload) ([]byte, error)
}

// Serialize encodes p with s and returns the bytes together with their exact length
func Serialize(s IPayloadSerializer, p payload.Payload) (data []byte, beforeBytes int, err error) {
	data, err = s.Serialize(p)
	if err != nil {
		return nil, 0, err
	}
	return data, len(data), nil
}
