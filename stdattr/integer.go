package stdattr

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/sharedcode/ocaf/tdf"
)

// Integer holds an int64.
type Integer struct {
	tdf.AttributeBase
	Value int64 `json:"value"`
}

// IntegerKind is the kind of Integer attributes.
var IntegerKind = tdf.RegisterKind("Integer", func() tdf.Attribute { return &Integer{} })

func (i *Integer) Kind() tdf.Kind            { return IntegerKind }
func (i *Integer) BackupCopy() tdf.Attribute { return &Integer{Value: i.Value} }
func (i *Integer) Restore(from tdf.Attribute) {
	if o, ok := from.(*Integer); ok {
		i.Value = o.Value
	}
}
func (i *Integer) Payload() any   { return &i.Value }
func (i *Integer) String() string { return strconv.FormatInt(i.Value, 10) }

// Set changes the value.
func (i *Integer) Set(v int64) {
	if i.Value == v {
		return
	}
	i.Backup()
	i.Value = v
}

// Get returns the value.
func (i *Integer) Get() int64 {
	return i.Value
}

// SetInteger finds or creates the Integer of l and sets it to v.
func SetInteger(l tdf.Label, v int64) (*Integer, error) {
	a, err := findOrAdd(l, IntegerKind, func() *Integer { return &Integer{Value: v} })
	if err != nil {
		return nil, err
	}
	a.Set(v)
	return a, nil
}

// GetInteger returns the Integer value of l.
func GetInteger(l tdf.Label) (int64, bool) {
	a, ok := find[*Integer](l, IntegerKind)
	if !ok {
		return 0, false
	}
	return a.Value, true
}

// IntegerArray holds a slice of int64.
type IntegerArray struct {
	tdf.AttributeBase
	Values []int64 `json:"values"`
}

// IntegerArrayKind is the kind of IntegerArray attributes.
var IntegerArrayKind = tdf.RegisterKind("IntegerArray", func() tdf.Attribute { return &IntegerArray{} })

func (a *IntegerArray) Kind() tdf.Kind { return IntegerArrayKind }
func (a *IntegerArray) BackupCopy() tdf.Attribute {
	return &IntegerArray{Values: slices.Clone(a.Values)}
}
func (a *IntegerArray) Restore(from tdf.Attribute) {
	if o, ok := from.(*IntegerArray); ok {
		a.Values = slices.Clone(o.Values)
	}
}
func (a *IntegerArray) Payload() any   { return &a.Values }
func (a *IntegerArray) String() string { return fmt.Sprint(a.Values) }

// Len returns the number of values.
func (a *IntegerArray) Len() int {
	return len(a.Values)
}

// Set replaces all values.
func (a *IntegerArray) Set(vs []int64) {
	a.Backup()
	a.Values = slices.Clone(vs)
}

// SetValue changes the value at index i.
func (a *IntegerArray) SetValue(i int, v int64) error {
	if i < 0 || i >= len(a.Values) {
		return fmt.Errorf("index %d out of range [0, %d)", i, len(a.Values))
	}
	a.Backup()
	a.Values[i] = v
	return nil
}

// Value returns the value at index i.
func (a *IntegerArray) Value(i int) int64 {
	return a.Values[i]
}

// SetIntegerArray finds or creates the IntegerArray of l and sets its values.
func SetIntegerArray(l tdf.Label, vs []int64) (*IntegerArray, error) {
	a, err := findOrAdd(l, IntegerArrayKind, func() *IntegerArray { return &IntegerArray{} })
	if err != nil {
		return nil, err
	}
	a.Set(vs)
	return a, nil
}

// GetIntegerArray returns a copy of the IntegerArray values of l.
func GetIntegerArray(l tdf.Label) ([]int64, bool) {
	a, ok := find[*IntegerArray](l, IntegerArrayKind)
	if !ok {
		return nil, false
	}
	return slices.Clone(a.Values), true
}
