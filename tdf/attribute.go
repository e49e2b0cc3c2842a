package tdf

// Attribute is a typed payload attached to a label. Concrete attributes embed AttributeBase
// and call Backup before every in-place mutation so the change can be undone.
type Attribute interface {
	// Kind returns the registered kind of the attribute.
	Kind() Kind
	// BackupCopy returns a detached copy holding the current value.
	BackupCopy() Attribute
	// Restore copies the value held by from (a BackupCopy of the same kind) into the receiver.
	Restore(from Attribute)

	attributeBase() *AttributeBase
}

// Persistent is implemented by attributes that can be saved. Payload returns a pointer to the
// serializable state, which decoding fills in place.
type Persistent interface {
	Attribute
	Payload() any
}

// AttributeBase carries the owner label of an attribute. Embed it in concrete attributes.
type AttributeBase struct {
	label Label
	self  Attribute
}

func (b *AttributeBase) attributeBase() *AttributeBase {
	return b
}

// Label returns the label owning the attribute, or the null label when detached.
func (b *AttributeBase) Label() Label {
	return b.label
}

// Backup records the attribute's current value in the open transaction. Only the first call
// per transaction keeps a snapshot; outside of a transaction it does nothing.
func (b *AttributeBase) Backup() {
	if b.self == nil || b.label.IsNull() {
		return
	}
	d := b.label.data
	if !d.recording() {
		return
	}
	d.recordBackup(b.label, b.self)
}

func (b *AttributeBase) bind(l Label, self Attribute) {
	b.label = l
	b.self = self
}

func (b *AttributeBase) unbind(l Label) {
	if b.label == l {
		b.label = Label{}
	}
}
