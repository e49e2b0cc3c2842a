package stdattr

import (
	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/tdf"
)

// UUID holds an identifier, typically a GUID naming the role of the label.
type UUID struct {
	tdf.AttributeBase
	Value ocaf.UUID `json:"value"`
}

// UUIDKind is the kind of UUID attributes.
var UUIDKind = tdf.RegisterKind("UUID", func() tdf.Attribute { return &UUID{} })

func (u *UUID) Kind() tdf.Kind            { return UUIDKind }
func (u *UUID) BackupCopy() tdf.Attribute { return &UUID{Value: u.Value} }
func (u *UUID) Restore(from tdf.Attribute) {
	if o, ok := from.(*UUID); ok {
		u.Value = o.Value
	}
}
func (u *UUID) Payload() any   { return &u.Value }
func (u *UUID) String() string { return u.Value.String() }

func (u *UUID) Set(v ocaf.UUID) {
	if u.Value == v {
		return
	}
	u.Backup()
	u.Value = v
}

// SetUUID finds or creates the UUID of l and sets it to v.
func SetUUID(l tdf.Label, v ocaf.UUID) (*UUID, error) {
	a, err := findOrAdd(l, UUIDKind, func() *UUID { return &UUID{Value: v} })
	if err != nil {
		return nil, err
	}
	a.Set(v)
	return a, nil
}

func GetUUID(l tdf.Label) (ocaf.UUID, bool) {
	a, ok := find[*UUID](l, UUIDKind)
	if !ok {
		return ocaf.NilUUID, false
	}
	return a.Value, true
}
