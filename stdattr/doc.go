// Package stdattr provides the standard attribute kinds: scalars, strings, arrays, references
// to other labels, UUIDs, tick markers, and a generic Value for application payloads.
//
// Each kind has a Set function that finds or creates the attribute on a label and records the
// change in the open transaction, and a Get function that reads it.
package stdattr

import "github.com/sharedcode/ocaf/tdf"

func find[A tdf.Attribute](l tdf.Label, k tdf.Kind) (A, bool) {
	var zero A
	a, ok := l.Attribute(k)
	if !ok {
		return zero, false
	}
	v, ok := a.(A)
	return v, ok
}

// findOrAdd returns the attribute of kind k on l, adding the one made by create when absent.
func findOrAdd[A tdf.Attribute](l tdf.Label, k tdf.Kind, create func() A) (A, error) {
	if a, ok := find[A](l, k); ok {
		return a, nil
	}
	a := create()
	if err := l.AddAttribute(a); err != nil {
		var zero A
		return zero, err
	}
	return a, nil
}
