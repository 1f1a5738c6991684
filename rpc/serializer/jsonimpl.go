package serializer

import (
	"bytes"
	"encoding/json"
	"github.com/ValentinKolb/plbench/lib/payload"
)

// NewJSONSerializer creates a new serializer producing the compact JSON array text
func NewJSONSerializer() IPayloadSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IPayloadSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IPayloadSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Name() string {
	return "json"
}

func (j jsonSerializerImpl) Serialize(p payload.Payload) ([]byte, error) {
	// nil would be encoded as null
	if p == nil {
		p = payload.Payload{}
	}

	var buf bytes.Buffer
	if len(p) > 0 {
		// every element has the same size, so the final length is known up front
		buf.Grow(len(p)*(len(p[0])+1) + 2)
	}

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}

	// Encode terminates the value with a newline
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
