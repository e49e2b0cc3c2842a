package tdf

import (
	"fmt"
	"sort"
	"testing"
)

type realAttr struct {
	AttributeBase
	value float64
}

var realKind = RegisterKind("test.Real", func() Attribute { return &realAttr{} })

func (r *realAttr) Kind() Kind            { return realKind }
func (r *realAttr) BackupCopy() Attribute { return &realAttr{value: r.value} }
func (r *realAttr) Restore(from Attribute) {
	if o, ok := from.(*realAttr); ok {
		r.value = o.value
	}
}
func (r *realAttr) Payload() any   { return &r.value }
func (r *realAttr) String() string { return fmt.Sprint(r.value) }

func (r *realAttr) set(v float64) {
	r.Backup()
	r.value = v
}

type nameAttr struct {
	AttributeBase
	value string
}

var nameKind = RegisterKind("test.Name", func() Attribute { return &nameAttr{} })

func (n *nameAttr) Kind() Kind            { return nameKind }
func (n *nameAttr) BackupCopy() Attribute { return &nameAttr{value: n.value} }
func (n *nameAttr) Restore(from Attribute) {
	if o, ok := from.(*nameAttr); ok {
		n.value = o.value
	}
}
func (n *nameAttr) String() string { return n.value }

// snapshot captures attached labels and their attribute values for structural comparison.
func snapshot(d *Data) []string {
	var r []string
	d.Walk(func(l Label) error {
		s := l.Entry()
		for _, a := range l.Attributes() {
			s += fmt.Sprintf(" %s=%s", a.Kind(), attributeText(a))
		}
		r = append(r, s)
		return nil
	})
	sort.Strings(r)
	return r
}

func mustLabel(t testing.TB, d *Data, entry string) Label {
	t.Helper()
	l, err := d.FindLabel(entry, true)
	if err != nil {
		t.Fatalf("FindLabel(%s) failed, details: %v", entry, err)
	}
	return l
}

func realOf(l Label) (float64, bool) {
	a, ok := l.Attribute(realKind)
	if !ok {
		return 0, false
	}
	return a.(*realAttr).value, true
}
