package tdf

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/sharedcode/ocaf/arena"
)

// DeltaKind tells what a delta entry recorded.
type DeltaKind uint8

const (
	noDelta DeltaKind = iota
	// OnAddition records an attribute added to a label.
	OnAddition
	// OnModification records an attribute's value before it changed.
	OnModification
	// OnRemoval records an attribute removed from a label.
	OnRemoval
	// OnLabelAddition records a label attached to the tree.
	OnLabelAddition
	// OnLabelRemoval records a label detached from the tree.
	OnLabelRemoval
)

func (k DeltaKind) String() string {
	switch k {
	case OnAddition:
		return "OnAddition"
	case OnModification:
		return "OnModification"
	case OnRemoval:
		return "OnRemoval"
	case OnLabelAddition:
		return "OnLabelAddition"
	case OnLabelRemoval:
		return "OnLabelRemoval"
	}
	return fmt.Sprintf("DeltaKind(%d)", uint8(k))
}

// IsLabelEntry reports whether the kind concerns a label rather than an attribute.
func (k DeltaKind) IsLabelEntry() bool {
	return k == OnLabelAddition || k == OnLabelRemoval
}

// DeltaEntry is one reversible change. Attribute holds the added attribute (OnAddition), the
// value before the change (OnModification) or the removed attribute (OnRemoval).
type DeltaEntry struct {
	Kind      DeltaKind
	Label     Label
	AttrKind  Kind
	Attribute Attribute
}

func (e DeltaEntry) String() string {
	if e.Kind.IsLabelEntry() {
		return fmt.Sprintf("%s %s", e.Kind, e.Label)
	}
	return fmt.Sprintf("%s %s %s", e.Kind, e.Label, e.AttrKind)
}

// Delta is the ordered set of changes made by one committed transaction.
type Delta struct {
	data      *Data
	beginTime int
	endTime   int
	name      string
	entries   []DeltaEntry
}

// Entries returns a copy of the delta's entries in replay order.
func (d *Delta) Entries() []DeltaEntry {
	return slices.Clone(d.entries)
}

// Len returns the number of entries.
func (d *Delta) Len() int {
	return len(d.entries)
}

// IsEmpty reports whether the delta holds no entry.
func (d *Delta) IsEmpty() bool {
	return len(d.entries) == 0
}

// BeginTime returns the Time of the Data when the transaction was opened.
func (d *Delta) BeginTime() int {
	return d.beginTime
}

// EndTime returns the Time of the Data after the transaction was committed.
func (d *Delta) EndTime() int {
	return d.endTime
}

// Name returns the delta's name.
func (d *Delta) Name() string {
	return d.name
}

// SetName names the delta, e.g. after the command that produced it.
func (d *Delta) SetName(name string) {
	d.name = name
}

// Labels returns the distinct labels touched by the delta in first appearance order.
func (d *Delta) Labels() []Label {
	seen := make(map[arena.Index]struct{}, len(d.entries))
	var r []Label
	for _, e := range d.entries {
		if _, ok := seen[e.Label.idx]; ok {
			continue
		}
		seen[e.Label.idx] = struct{}{}
		r = append(r, e.Label)
	}
	return r
}

// Dump writes a readable listing of the delta.
func (d *Delta) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Delta %q [%d, %d] %d entries\n", d.name, d.beginTime, d.endTime, len(d.entries)); err != nil {
		return err
	}
	for _, e := range d.entries {
		if _, err := fmt.Fprintf(w, "  %s\n", e); err != nil {
			return err
		}
	}
	return nil
}

// fixOrder arranges entries for replay: label re-attachments shallowest first, then attribute
// entries grouped by label with removals last in each group, then label detachments deepest first.
func fixOrder(entries []*DeltaEntry) []DeltaEntry {
	var reattach, detach, attrs []*DeltaEntry
	for _, e := range entries {
		switch e.Kind {
		case OnLabelRemoval:
			reattach = append(reattach, e)
		case OnLabelAddition:
			detach = append(detach, e)
		case noDelta:
		default:
			attrs = append(attrs, e)
		}
	}
	slices.SortStableFunc(reattach, func(a, b *DeltaEntry) int {
		return cmp.Compare(a.Label.Depth(), b.Label.Depth())
	})
	slices.SortStableFunc(detach, func(a, b *DeltaEntry) int {
		return cmp.Compare(b.Label.Depth(), a.Label.Depth())
	})

	groups := make(map[arena.Index]int)
	var order []arena.Index
	for _, e := range attrs {
		if _, ok := groups[e.Label.idx]; !ok {
			groups[e.Label.idx] = len(order)
			order = append(order, e.Label.idx)
		}
	}
	slices.SortStableFunc(attrs, func(a, b *DeltaEntry) int {
		if c := cmp.Compare(groups[a.Label.idx], groups[b.Label.idx]); c != 0 {
			return c
		}
		return cmp.Compare(removalRank(a.Kind), removalRank(b.Kind))
	})

	r := make([]DeltaEntry, 0, len(reattach)+len(attrs)+len(detach))
	for _, s := range [][]*DeltaEntry{reattach, attrs, detach} {
		for _, e := range s {
			r = append(r, *e)
		}
	}
	return r
}

func removalRank(k DeltaKind) int {
	if k == OnRemoval {
		return 1
	}
	return 0
}
