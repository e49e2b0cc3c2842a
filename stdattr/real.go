package stdattr

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/sharedcode/ocaf/tdf"
)

// Real holds a float64.
type Real struct {
	tdf.AttributeBase
	Value float64 `json:"value"`
}

// RealKind is the kind of Real attributes.
var RealKind = tdf.RegisterKind("Real", func() tdf.Attribute { return &Real{} })

func (r *Real) Kind() tdf.Kind            { return RealKind }
func (r *Real) BackupCopy() tdf.Attribute { return &Real{Value: r.Value} }
func (r *Real) Restore(from tdf.Attribute) {
	if o, ok := from.(*Real); ok {
		r.Value = o.Value
	}
}
func (r *Real) Payload() any   { return &r.Value }
func (r *Real) String() string { return strconv.FormatFloat(r.Value, 'g', -1, 64) }

// Set changes the value.
func (r *Real) Set(v float64) {
	if r.Value == v {
		return
	}
	r.Backup()
	r.Value = v
}

// Get returns the value.
func (r *Real) Get() float64 {
	return r.Value
}

// SetReal finds or creates the Real of l and sets it to v.
func SetReal(l tdf.Label, v float64) (*Real, error) {
	a, err := findOrAdd(l, RealKind, func() *Real { return &Real{Value: v} })
	if err != nil {
		return nil, err
	}
	a.Set(v)
	return a, nil
}

// GetReal returns the Real value of l.
func GetReal(l tdf.Label) (float64, bool) {
	a, ok := find[*Real](l, RealKind)
	if !ok {
		return 0, false
	}
	return a.Value, true
}

// RealArray holds a slice of float64.
type RealArray struct {
	tdf.AttributeBase
	Values []float64 `json:"values"`
}

// RealArrayKind is the kind of RealArray attributes.
var RealArrayKind = tdf.RegisterKind("RealArray", func() tdf.Attribute { return &RealArray{} })

func (a *RealArray) Kind() tdf.Kind            { return RealArrayKind }
func (a *RealArray) BackupCopy() tdf.Attribute { return &RealArray{Values: slices.Clone(a.Values)} }
func (a *RealArray) Restore(from tdf.Attribute) {
	if o, ok := from.(*RealArray); ok {
		a.Values = slices.Clone(o.Values)
	}
}
func (a *RealArray) Payload() any   { return &a.Values }
func (a *RealArray) String() string { return fmt.Sprint(a.Values) }

func (a *RealArray) Len() int {
	return len(a.Values)
}

// Set replaces all values.
func (a *RealArray) Set(vs []float64) {
	a.Backup()
	a.Values = slices.Clone(vs)
}

// SetValue changes the value at index i.
func (a *RealArray) SetValue(i int, v float64) error {
	if i < 0 || i >= len(a.Values) {
		return fmt.Errorf("index %d out of range [0, %d)", i, len(a.Values))
	}
	a.Backup()
	a.Values[i] = v
	return nil
}

func (a *RealArray) Value(i int) float64 {
	return a.Values[i]
}

// SetRealArray finds or creates the RealArray of l and sets its values.
func SetRealArray(l tdf.Label, vs []float64) (*RealArray, error) {
	a, err := findOrAdd(l, RealArrayKind, func() *RealArray { return &RealArray{} })
	if err != nil {
		return nil, err
	}
	a.Set(vs)
	return a, nil
}

// GetRealArray returns a copy of the RealArray values of l.
func GetRealArray(l tdf.Label) ([]float64, bool) {
	a, ok := find[*RealArray](l, RealArrayKind)
	if !ok {
		return nil, false
	}
	return slices.Clone(a.Values), true
}
