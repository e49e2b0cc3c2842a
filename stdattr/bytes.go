package stdattr

import (
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/sharedcode/ocaf/tdf"
)

// ByteArray holds raw bytes.
type ByteArray struct {
	tdf.AttributeBase
	Values []byte `json:"values"`
}

// ByteArrayKind is the kind of ByteArray attributes.
var ByteArrayKind = tdf.RegisterKind("ByteArray", func() tdf.Attribute { return &ByteArray{} })

func (a *ByteArray) Kind() tdf.Kind            { return ByteArrayKind }
func (a *ByteArray) BackupCopy() tdf.Attribute { return &ByteArray{Values: slices.Clone(a.Values)} }
func (a *ByteArray) Restore(from tdf.Attribute) {
	if o, ok := from.(*ByteArray); ok {
		a.Values = slices.Clone(o.Values)
	}
}
func (a *ByteArray) Payload() any { return &a.Values }

func (a *ByteArray) String() string {
	if len(a.Values) > 32 {
		return fmt.Sprintf("%s... (%d bytes)", hex.EncodeToString(a.Values[:32]), len(a.Values))
	}
	return hex.EncodeToString(a.Values)
}

// Set replaces the bytes.
func (a *ByteArray) Set(vs []byte) {
	a.Backup()
	a.Values = slices.Clone(vs)
}

// SetByteArray finds or creates the ByteArray of l and sets its bytes.
func SetByteArray(l tdf.Label, vs []byte) (*ByteArray, error) {
	a, err := findOrAdd(l, ByteArrayKind, func() *ByteArray { return &ByteArray{} })
	if err != nil {
		return nil, err
	}
	a.Set(vs)
	return a, nil
}

// GetByteArray returns a copy of the ByteArray bytes of l.
func GetByteArray(l tdf.Label) ([]byte, bool) {
	a, ok := find[*ByteArray](l, ByteArrayKind)
	if !ok {
		return nil, false
	}
	return slices.Clone(a.Values), true
}
