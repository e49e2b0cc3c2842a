// Package encoding holds the marshalers used to persist document snapshots.
package encoding

import (
	"encoding/json"
	"fmt"
)

// Marshaler interface specifies encoding to byte array and back to the object.
type Marshaler interface {
	// Encodes any object to byte array.
	Marshal(v any) ([]byte, error)
	// Decodes byte array back to its Object type.
	Unmarshal(data []byte, v any) error
}

// Global Default marshaller.
var DefaultMarshaler = NewMarshaler()

type defaultMarshaler struct{}

// Returns the default marshaller which uses the golang's json package.
// Json was chosen as default because snapshots stay human readable.
func NewMarshaler() Marshaler {
	return &defaultMarshaler{}
}

// Encodes any object to a byte array.
func (m defaultMarshaler) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decodes a byte array back to its Object type.
func (m defaultMarshaler) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ByFormat returns the marshaler of a configured snapshot format ("json" or "cbor").
// Empty selects the default.
func ByFormat(format string) (Marshaler, error) {
	switch format {
	case "", "json":
		return DefaultMarshaler, nil
	case "cbor":
		return NewCBORMarshaler()
	}
	return nil, fmt.Errorf("unsupported snapshot format %q", format)
}

// Marshal encodes v with m, passing byte arrays through as is.
func Marshal(m Marshaler, v any) ([]byte, error) {
	switch b := v.(type) {
	case *[]byte:
		return *b, nil
	case []byte:
		return b, nil
	default:
		return m.Marshal(v)
	}
}

// Unmarshal decodes ba into v with m. A *[]byte target receives ba as is.
func Unmarshal(m Marshaler, ba []byte, v any) error {
	if b, ok := v.(*[]byte); ok {
		*b = append((*b)[:0], ba...)
		return nil
	}
	return m.Unmarshal(ba, v)
}
