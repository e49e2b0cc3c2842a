package stdattr

import "github.com/sharedcode/ocaf/tdf"

// Tick marks a label without carrying a value.
type Tick struct {
	tdf.AttributeBase
}

// TickKind is the kind of Tick attributes.
var TickKind = tdf.RegisterKind("Tick", func() tdf.Attribute { return &Tick{} })

func (t *Tick) Kind() tdf.Kind             { return TickKind }
func (t *Tick) BackupCopy() tdf.Attribute  { return &Tick{} }
func (t *Tick) Restore(from tdf.Attribute) {}
func (t *Tick) Payload() any               { return &struct{}{} }
func (t *Tick) String() string             { return "tick" }

// SetTick marks l.
func SetTick(l tdf.Label) (*Tick, error) {
	return findOrAdd(l, TickKind, func() *Tick { return &Tick{} })
}

// IsTicked reports whether l is marked.
func IsTicked(l tdf.Label) bool {
	return l.HasAttribute(TickKind)
}
