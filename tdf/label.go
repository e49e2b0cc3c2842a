package tdf

import (
	"fmt"
	"slices"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/arena"
)

// Label is a lightweight handle to a node of a label tree. The zero Label is the null label.
// Labels are comparable; two handles to the same node are equal.
type Label struct {
	data *Data
	idx  arena.Index
}

func (l Label) node() *node {
	if l.data == nil {
		return nil
	}
	return l.data.node(l.idx)
}

func (l Label) live() (*node, error) {
	if l.data == nil {
		return nil, newError(ocaf.NullLabel, ErrNullLabel, nil)
	}
	if err := l.data.live(); err != nil {
		return nil, err
	}
	return l.data.node(l.idx), nil
}

func (l Label) writable() (*node, error) {
	n, err := l.live()
	if err != nil {
		return nil, err
	}
	if !n.attached {
		return nil, newError(ocaf.DetachedLabel, ErrDetachedLabel, l.Entry())
	}
	return n, nil
}

// IsNull reports whether l is the null label.
func (l Label) IsNull() bool {
	return l.data == nil
}

// Data returns the label tree the label belongs to.
func (l Label) Data() *Data {
	return l.data
}

// IsRoot reports whether l is the root label.
func (l Label) IsRoot() bool {
	return l.data != nil && l.idx == l.data.root
}

// Father returns the parent label, or the null label for the root.
func (l Label) Father() Label {
	n := l.node()
	if n == nil || n.father == arena.Nil {
		return Label{}
	}
	return Label{data: l.data, idx: n.father}
}

// Tag returns the label's tag, -1 for the null label.
func (l Label) Tag() int {
	n := l.node()
	if n == nil {
		return -1
	}
	return n.tag
}

// Depth returns the number of ancestors of the label (0 for the root).
func (l Label) Depth() int {
	n := l.node()
	if n == nil {
		return -1
	}
	return n.depth
}

// IsAttached reports whether the label is part of the tree. Labels become detached when the
// transaction that created them is undone.
func (l Label) IsAttached() bool {
	n := l.node()
	return n != nil && n.attached
}

// Transaction returns the transaction level that was open when the label was created.
func (l Label) Transaction() int {
	n := l.node()
	if n == nil {
		return 0
	}
	return n.transaction
}

// IsDescendant reports whether l lies under other.
func (l Label) IsDescendant(other Label) bool {
	if l.data == nil || l.data != other.data {
		return false
	}
	for f := l.Father(); !f.IsNull(); f = f.Father() {
		if f == other {
			return true
		}
	}
	return false
}

// FindChild returns the attached child with the given tag. When it does not exist, the null
// label is returned unless create is set, in which case the child is created.
func (l Label) FindChild(tag int, create bool) (Label, error) {
	n, err := l.live()
	if err != nil {
		return Label{}, err
	}
	if tag < 0 {
		return Label{}, newError(ocaf.InvalidEntry, fmt.Errorf("%w: negative tag %d", ErrInvalidEntry, tag), tag)
	}
	d := l.data
	for c := n.firstChild; c != arena.Nil; c = d.node(c).nextSibling {
		cn := d.node(c)
		if cn.tag != tag {
			continue
		}
		if cn.attached {
			return Label{data: d, idx: c}, nil
		}
		if !create {
			return Label{}, nil
		}
		if !n.attached {
			return Label{}, newError(ocaf.DetachedLabel, ErrDetachedLabel, l.Entry())
		}
		cn.transaction = d.transaction
		d.reattach(c)
		return Label{data: d, idx: c}, nil
	}
	if !create {
		return Label{}, nil
	}
	if !n.attached {
		return Label{}, newError(ocaf.DetachedLabel, ErrDetachedLabel, l.Entry())
	}
	return d.newNode(l.idx, tag)
}

// NewChild creates a child tagged one past the highest tag used under l.
func (l Label) NewChild() (Label, error) {
	n, err := l.writable()
	if err != nil {
		return Label{}, err
	}
	tag := 0
	for c := n.firstChild; c != arena.Nil; c = l.data.node(c).nextSibling {
		tag = max(tag, l.data.node(c).tag)
	}
	return l.FindChild(tag+1, true)
}

// Children returns the attached children in creation order.
func (l Label) Children() []Label {
	n := l.node()
	if n == nil {
		return nil
	}
	var r []Label
	for c := n.firstChild; c != arena.Nil; c = l.data.node(c).nextSibling {
		if l.data.node(c).attached {
			r = append(r, Label{data: l.data, idx: c})
		}
	}
	return r
}

// NbChildren returns the number of attached children.
func (l Label) NbChildren() int {
	n := l.node()
	if n == nil {
		return 0
	}
	count := 0
	for c := n.firstChild; c != arena.Nil; c = l.data.node(c).nextSibling {
		if l.data.node(c).attached {
			count++
		}
	}
	return count
}

// HasChild reports whether l has at least one attached child.
func (l Label) HasChild() bool {
	n := l.node()
	if n == nil {
		return false
	}
	for c := n.firstChild; c != arena.Nil; c = l.data.node(c).nextSibling {
		if l.data.node(c).attached {
			return true
		}
	}
	return false
}

// Entry returns the tag path of the label from the root, e.g. "0:1:3".
func (l Label) Entry() string {
	n := l.node()
	if n == nil {
		return ""
	}
	tags := make([]int, n.depth+1)
	idx := l.idx
	for i := n.depth; i >= 0; i-- {
		cn := l.data.node(idx)
		tags[i] = cn.tag
		idx = cn.father
	}
	return formatEntry(tags)
}

// EntryAsString is an alias of Entry.
func (l Label) EntryAsString() string {
	return l.Entry()
}

func (l Label) String() string {
	if l.IsNull() {
		return "<null>"
	}
	return l.Entry()
}

// Attribute returns the attribute of the given kind held by l.
func (l Label) Attribute(k Kind) (Attribute, bool) {
	n := l.node()
	if n == nil {
		return nil, false
	}
	if i := n.find(k); i >= 0 {
		return n.attrs[i], true
	}
	return nil, false
}

// HasAttribute reports whether l holds an attribute of the given kind.
func (l Label) HasAttribute(k Kind) bool {
	_, ok := l.Attribute(k)
	return ok
}

// Attributes returns the attributes held by l in insertion order.
func (l Label) Attributes() []Attribute {
	n := l.node()
	if n == nil {
		return nil
	}
	return slices.Clone(n.attrs)
}

// NbAttributes returns the number of attributes held by l.
func (l Label) NbAttributes() int {
	n := l.node()
	if n == nil {
		return 0
	}
	return len(n.attrs)
}

// AddAttribute attaches a to l. An attribute of the same kind already on l is replaced.
func (l Label) AddAttribute(a Attribute) error {
	n, err := l.writable()
	if err != nil {
		return err
	}
	if a == nil || !a.Kind().IsRegistered() {
		return newError(ocaf.KindMismatch, ErrKindMismatch, l.Entry())
	}
	if owner := a.attributeBase().label; !owner.IsNull() && owner != l {
		if held, ok := owner.Attribute(a.Kind()); ok && held == a {
			return newError(ocaf.AttributeInUse, ErrAttributeInUse, owner.Entry())
		}
	}
	if i := n.find(a.Kind()); i >= 0 {
		if n.attrs[i] == a {
			return nil
		}
		l.data.replaceAttribute(l, i, a)
		return nil
	}
	l.data.attachAttribute(l, a)
	return nil
}

// RemoveAttribute detaches the attribute of the given kind from l.
func (l Label) RemoveAttribute(k Kind) error {
	n, err := l.writable()
	if err != nil {
		return err
	}
	i := n.find(k)
	if i < 0 {
		return newError(ocaf.AttributeNotFound, ErrAttributeNotFound, fmt.Sprintf("%s %s", l.Entry(), k))
	}
	l.data.detachAttribute(l, i)
	return nil
}

// ForgetAllAttributes removes every attribute of l and, when clearChildren is set, of all
// its descendants.
func (l Label) ForgetAllAttributes(clearChildren bool) error {
	n, err := l.writable()
	if err != nil {
		return err
	}
	for len(n.attrs) > 0 {
		l.data.detachAttribute(l, len(n.attrs)-1)
	}
	if !clearChildren {
		return nil
	}
	for _, c := range l.Children() {
		if err := c.ForgetAllAttributes(true); err != nil {
			return err
		}
	}
	return nil
}

func (d *Data) newNode(father arena.Index, tag int) (Label, error) {
	idx, n, err := d.nodes.Alloc()
	if err != nil {
		return Label{}, newError(ocaf.AllocationFailure, fmt.Errorf("%w: %w", ErrAllocation, err), tag)
	}
	fn := d.node(father)
	*n = node{
		tag:         tag,
		depth:       fn.depth + 1,
		father:      father,
		firstChild:  arena.Nil,
		lastChild:   arena.Nil,
		nextSibling: arena.Nil,
		transaction: d.transaction,
		attached:    true,
	}
	if fn.lastChild == arena.Nil {
		fn.firstChild = idx
	} else {
		d.node(fn.lastChild).nextSibling = idx
	}
	fn.lastChild = idx
	l := Label{data: d, idx: idx}
	d.index(l)
	d.record(DeltaEntry{Kind: OnLabelAddition, Label: l})
	return l, nil
}

func (d *Data) detach(idx arena.Index) {
	l := Label{data: d, idx: idx}
	d.unindex(l)
	d.node(idx).attached = false
	d.record(DeltaEntry{Kind: OnLabelRemoval, Label: l})
}

func (d *Data) reattach(idx arena.Index) {
	l := Label{data: d, idx: idx}
	d.node(idx).attached = true
	d.index(l)
	d.record(DeltaEntry{Kind: OnLabelAddition, Label: l})
}

func (d *Data) attachAttribute(l Label, a Attribute) {
	n := d.node(l.idx)
	a.attributeBase().bind(l, a)
	n.attrs = append(n.attrs, a)
	d.record(DeltaEntry{Kind: OnAddition, Label: l, AttrKind: a.Kind(), Attribute: a})
}

func (d *Data) replaceAttribute(l Label, i int, a Attribute) {
	n := d.node(l.idx)
	old := n.attrs[i]
	old.attributeBase().unbind(l)
	a.attributeBase().bind(l, a)
	n.attrs[i] = a
	d.record(DeltaEntry{Kind: OnModification, Label: l, AttrKind: a.Kind(), Attribute: old})
}

func (d *Data) detachAttribute(l Label, i int) Attribute {
	n := d.node(l.idx)
	a := n.attrs[i]
	n.attrs = slices.Delete(n.attrs, i, i+1)
	a.attributeBase().unbind(l)
	d.record(DeltaEntry{Kind: OnRemoval, Label: l, AttrKind: a.Kind(), Attribute: a})
	return a
}
