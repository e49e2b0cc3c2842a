package stdattr

import "github.com/sharedcode/ocaf/tdf"

// Reference points to another label of the same tree by entry.
type Reference struct {
	tdf.AttributeBase
	Target string `json:"target"`
}

// ReferenceKind is the kind of Reference attributes.
var ReferenceKind = tdf.RegisterKind("Reference", func() tdf.Attribute { return &Reference{} })

func (r *Reference) Kind() tdf.Kind            { return ReferenceKind }
func (r *Reference) BackupCopy() tdf.Attribute { return &Reference{Target: r.Target} }
func (r *Reference) Restore(from tdf.Attribute) {
	if o, ok := from.(*Reference); ok {
		r.Target = o.Target
	}
}
func (r *Reference) Payload() any   { return &r.Target }
func (r *Reference) String() string { return "-> " + r.Target }

// Set points the reference at target.
func (r *Reference) Set(target tdf.Label) {
	e := target.Entry()
	if r.Target == e {
		return
	}
	r.Backup()
	r.Target = e
}

// Resolve returns the referenced label if it is attached.
func (r *Reference) Resolve() (tdf.Label, bool) {
	d := r.Label().Data()
	if d == nil || r.Target == "" {
		return tdf.Label{}, false
	}
	return d.GetLabel(r.Target)
}

// SetReference finds or creates the Reference of l and points it at target.
func SetReference(l, target tdf.Label) (*Reference, error) {
	a, err := findOrAdd(l, ReferenceKind, func() *Reference { return &Reference{Target: target.Entry()} })
	if err != nil {
		return nil, err
	}
	a.Set(target)
	return a, nil
}

// GetReference resolves the Reference of l.
func GetReference(l tdf.Label) (tdf.Label, bool) {
	a, ok := find[*Reference](l, ReferenceKind)
	if !ok {
		return tdf.Label{}, false
	}
	return a.Resolve()
}
