package stdattr

import (
	"fmt"
	log "log/slog"

	"github.com/jinzhu/copier"
	"github.com/sharedcode/ocaf/tdf"
)

// Value holds an application defined payload of type T. Backups are deep copies, so T may
// contain maps, slices and pointers. Register a kind per payload type with RegisterValue.
type Value[T any] struct {
	tdf.AttributeBase
	kind tdf.Kind
	V    T `json:"value"`
}

// RegisterValue registers a Value[T] kind under name.
func RegisterValue[T any](name string) tdf.Kind {
	var k tdf.Kind
	k = tdf.RegisterKind(name, func() tdf.Attribute { return &Value[T]{kind: k} })
	return k
}

// NewValue returns a detached Value of kind k holding v.
func NewValue[T any](k tdf.Kind, v T) *Value[T] {
	return &Value[T]{kind: k, V: v}
}

func (v *Value[T]) Kind() tdf.Kind { return v.kind }

func (v *Value[T]) BackupCopy() tdf.Attribute {
	c := &Value[T]{kind: v.kind}
	deepCopy(&c.V, &v.V)
	return c
}

func (v *Value[T]) Restore(from tdf.Attribute) {
	if o, ok := from.(*Value[T]); ok {
		deepCopy(&v.V, &o.V)
	}
}

func (v *Value[T]) Payload() any   { return &v.V }
func (v *Value[T]) String() string { return fmt.Sprintf("%+v", v.V) }

// Get returns the payload. Mutating it in place bypasses undo; use Set or Update.
func (v *Value[T]) Get() T {
	return v.V
}

// Set replaces the payload.
func (v *Value[T]) Set(val T) {
	v.Backup()
	v.V = val
}

// Update lets fn modify the payload in place.
func (v *Value[T]) Update(fn func(*T)) {
	v.Backup()
	fn(&v.V)
}

func deepCopy[T any](to, from *T) {
	var zero T
	*to = zero
	if err := copier.CopyWithOption(to, from, copier.Option{DeepCopy: true}); err != nil {
		log.Warn("deep copy of attribute payload failed, falling back to shallow copy", "error", err)
		*to = *from
	}
}

// SetValue finds or creates the Value of kind k on l and sets its payload.
func SetValue[T any](l tdf.Label, k tdf.Kind, val T) (*Value[T], error) {
	a, err := findOrAdd(l, k, func() *Value[T] { return &Value[T]{kind: k} })
	if err != nil {
		return nil, err
	}
	a.Set(val)
	return a, nil
}

// GetValue returns the payload of the Value of kind k on l.
func GetValue[T any](l tdf.Label, k tdf.Kind) (T, bool) {
	a, ok := find[*Value[T]](l, k)
	if !ok {
		var zero T
		return zero, false
	}
	return a.V, true
}
