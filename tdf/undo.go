package tdf

import (
	log "log/slog"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/arena"
)

// IsApplicable reports whether Undo can revert delta on the current content. It replays the
// delta's preconditions against an overlay of the tree without touching it.
//
// A removed attribute that has since been added to another label makes the delta
// inapplicable. Modifications only require the attribute to still be present: undoing an
// older delta after later commits restores its saved values over theirs.
func (d *Data) IsApplicable(delta *Delta) bool {
	if delta == nil || delta.data != d || d.released {
		return false
	}
	s := simulation{
		d:        d,
		attached: make(map[arena.Index]bool),
		attrs:    make(map[attrKey]bool),
		counts:   make(map[arena.Index]int),
	}
	for _, e := range delta.entries {
		if !s.step(e) {
			log.Debug("delta not applicable", "entry", e.String())
			return false
		}
	}
	// A removed attribute may only come back if the replay also takes it off its new owner.
	for _, e := range s.moved {
		owner := e.Attribute.attributeBase().label
		if s.hasAttribute(owner.idx, e.AttrKind) {
			log.Debug("delta not applicable, attribute in use", "entry", e.String(), "owner", owner.Entry())
			return false
		}
	}
	return true
}

// Undo reverts the changes of delta. With withDelta, the reversal runs in its own transaction
// and the returned Delta redoes what was undone. A delta that no longer fits the current
// content is rejected with InapplicableDelta and nothing changes.
func (d *Data) Undo(delta *Delta, withDelta bool) (*Delta, error) {
	if err := d.live(); err != nil {
		return nil, err
	}
	if !d.IsApplicable(delta) {
		return nil, newError(ocaf.InapplicableDelta, ErrInapplicableDelta, deltaName(delta))
	}
	if withDelta {
		d.OpenTransaction()
	}
	d.revertAll(delta.entries)
	log.Debug("delta undone", "name", delta.name, "entries", len(delta.entries))
	if !withDelta {
		return nil, nil
	}
	redo, err := d.CommitTransaction(true)
	if err != nil {
		return nil, err
	}
	redo.name = delta.name
	return redo, nil
}

func deltaName(delta *Delta) string {
	if delta == nil {
		return "<nil>"
	}
	return delta.name
}

// revertAll reverts entries in order. Removed attributes still owned by another label are
// reattached last, once the entries detaching them from that label have run.
func (d *Data) revertAll(entries []DeltaEntry) {
	var moved []DeltaEntry
	for _, e := range entries {
		if e.Kind == OnRemoval && d.heldElsewhere(e.Label, e.Attribute) {
			moved = append(moved, e)
			continue
		}
		d.revert(e)
	}
	for _, e := range moved {
		d.revert(e)
	}
}

// revert applies the inverse of e through the recording paths.
func (d *Data) revert(e DeltaEntry) {
	l := e.Label
	n := d.node(l.idx)
	switch e.Kind {
	case OnAddition:
		if i := n.find(e.AttrKind); i >= 0 {
			d.detachAttribute(l, i)
		}
	case OnModification:
		if i := n.find(e.AttrKind); i >= 0 {
			cur := n.attrs[i]
			cur.attributeBase().Backup()
			cur.Restore(e.Attribute)
		}
	case OnRemoval:
		if n.find(e.AttrKind) < 0 && !d.heldElsewhere(l, e.Attribute) {
			d.attachAttribute(l, e.Attribute)
		}
	case OnLabelAddition:
		if n.attached {
			d.detach(l.idx)
		}
	case OnLabelRemoval:
		if !n.attached {
			d.reattach(l.idx)
		}
	}
}

// heldElsewhere reports whether a is currently owned by a label other than l.
func (d *Data) heldElsewhere(l Label, a Attribute) bool {
	owner := a.attributeBase().label
	if owner.IsNull() || owner == l || owner.data != d {
		return false
	}
	held, ok := owner.Attribute(a.Kind())
	return ok && held == a
}

// simulation tracks the attachment and attribute presence changes a delta replay would make.
type simulation struct {
	d        *Data
	attached map[arena.Index]bool
	attrs    map[attrKey]bool
	counts   map[arena.Index]int
	moved    []DeltaEntry
}

func (s *simulation) isAttached(idx arena.Index) bool {
	if v, ok := s.attached[idx]; ok {
		return v
	}
	return s.d.node(idx).attached
}

func (s *simulation) hasAttribute(idx arena.Index, k Kind) bool {
	if v, ok := s.attrs[attrKey{idx: idx, kind: k}]; ok {
		return v
	}
	return s.d.node(idx).find(k) >= 0
}

func (s *simulation) setAttribute(idx arena.Index, k Kind, present bool) {
	s.attrs[attrKey{idx: idx, kind: k}] = present
	if present {
		s.counts[idx]++
	} else {
		s.counts[idx]--
	}
}

func (s *simulation) nbAttributes(idx arena.Index) int {
	return len(s.d.node(idx).attrs) + s.counts[idx]
}

func (s *simulation) step(e DeltaEntry) bool {
	l := e.Label
	if l.data != s.d || l.idx < 0 || int(l.idx) >= s.d.nodes.Len() {
		return false
	}
	switch e.Kind {
	case OnAddition:
		if !s.isAttached(l.idx) || !s.hasAttribute(l.idx, e.AttrKind) {
			return false
		}
		s.setAttribute(l.idx, e.AttrKind, false)
	case OnModification:
		if e.Attribute == nil || e.Attribute.Kind() != e.AttrKind {
			return false
		}
		if !s.isAttached(l.idx) || !s.hasAttribute(l.idx, e.AttrKind) {
			return false
		}
	case OnRemoval:
		if e.Attribute == nil || e.Attribute.Kind() != e.AttrKind {
			return false
		}
		if !s.isAttached(l.idx) || s.hasAttribute(l.idx, e.AttrKind) {
			return false
		}
		if s.d.heldElsewhere(l, e.Attribute) {
			s.moved = append(s.moved, e)
		}
		s.setAttribute(l.idx, e.AttrKind, true)
	case OnLabelAddition:
		n := s.d.node(l.idx)
		if l.IsRoot() || !s.isAttached(l.idx) || s.nbAttributes(l.idx) > 0 {
			return false
		}
		for c := n.firstChild; c != arena.Nil; c = s.d.node(c).nextSibling {
			if s.isAttached(c) {
				return false
			}
		}
		s.attached[l.idx] = false
	case OnLabelRemoval:
		n := s.d.node(l.idx)
		if s.isAttached(l.idx) || n.father == arena.Nil || !s.isAttached(n.father) {
			return false
		}
		s.attached[l.idx] = true
	default:
		return false
	}
	return true
}
