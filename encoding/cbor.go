package encoding

import "github.com/fxamacker/cbor/v2"

type cborMarshaler struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBORMarshaler returns a marshaler producing deterministic (core) CBOR. Struct fields
// are keyed by their json tag names.
func NewCBORMarshaler() (Marshaler, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}
	return &cborMarshaler{enc: enc, dec: dec}, nil
}

func (m *cborMarshaler) Marshal(v any) ([]byte, error) {
	return m.enc.Marshal(v)
}

func (m *cborMarshaler) Unmarshal(data []byte, v any) error {
	return m.dec.Unmarshal(data, v)
}
