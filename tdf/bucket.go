package tdf

import "github.com/sharedcode/ocaf/arena"

type attrKey struct {
	idx  arena.Index
	kind Kind
}

// bucket collects the entries of one open transaction level, at most one per (label, kind)
// and one per label.
type bucket struct {
	beginTime int
	touched   int
	entries   []*DeltaEntry
	attrs     map[attrKey]*DeltaEntry
	labels    map[arena.Index]*DeltaEntry
}

func newBucket(beginTime int) *bucket {
	return &bucket{
		beginTime: beginTime,
		attrs:     make(map[attrKey]*DeltaEntry),
		labels:    make(map[arena.Index]*DeltaEntry),
	}
}

func (b *bucket) push(e DeltaEntry) {
	pe := &e
	b.entries = append(b.entries, pe)
	if e.Kind.IsLabelEntry() {
		b.labels[e.Label.idx] = pe
		return
	}
	b.attrs[attrKey{idx: e.Label.idx, kind: e.AttrKind}] = pe
}

func (b *bucket) drop(e *DeltaEntry) {
	if e.Kind.IsLabelEntry() {
		delete(b.labels, e.Label.idx)
	} else {
		delete(b.attrs, attrKey{idx: e.Label.idx, kind: e.AttrKind})
	}
	e.Kind = noDelta
}

// merge folds a new change into the bucket, collapsing it with a previous change of the
// same attribute or label:
//
//	addition + modification  = addition
//	addition + removal       = nothing
//	modification + change    = first modification, or removal of the first value
//	removal + addition       = modification from the removed value
//	label addition + removal = nothing, and the reverse
func (b *bucket) merge(e DeltaEntry) {
	if e.Kind.IsLabelEntry() {
		if prev, ok := b.labels[e.Label.idx]; ok && prev.Kind != e.Kind {
			b.drop(prev)
			return
		}
		b.push(e)
		return
	}
	prev, ok := b.attrs[attrKey{idx: e.Label.idx, kind: e.AttrKind}]
	if !ok {
		b.push(e)
		return
	}
	switch {
	case prev.Kind == OnAddition && e.Kind == OnRemoval:
		b.drop(prev)
	case prev.Kind == OnModification && e.Kind == OnRemoval:
		prev.Kind = OnRemoval
	case prev.Kind == OnRemoval && e.Kind == OnAddition:
		prev.Kind = OnModification
	}
}

func (b *bucket) hasAttribute(l Label, k Kind) bool {
	_, ok := b.attrs[attrKey{idx: l.idx, kind: k}]
	return ok
}

// absorb folds a committed nested bucket into b.
func (b *bucket) absorb(child *bucket) {
	for _, e := range child.entries {
		if e.Kind != noDelta {
			b.merge(*e)
		}
	}
	b.touched += child.touched
}

func (d *Data) record(e DeltaEntry) {
	if !d.recording() {
		return
	}
	b := d.buckets[len(d.buckets)-1]
	b.merge(e)
	b.touched++
}

func (d *Data) recordBackup(l Label, a Attribute) {
	b := d.buckets[len(d.buckets)-1]
	if b.hasAttribute(l, a.Kind()) {
		return
	}
	b.push(DeltaEntry{Kind: OnModification, Label: l, AttrKind: a.Kind(), Attribute: a.BackupCopy()})
	b.touched++
}
