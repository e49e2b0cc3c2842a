// Package storage linearizes documents into snapshots and defines the driver contract that
// persists them.
package storage

import (
	"fmt"
	log "log/slog"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/document"
	"github.com/sharedcode/ocaf/encoding"
	"github.com/sharedcode/ocaf/tdf"
)

// AttributeRecord is a persisted attribute.
type AttributeRecord struct {
	Kind    string `json:"kind"`
	Payload []byte `json:"payload,omitempty"`
}

// LabelRecord is a persisted label. Labels are listed parents first.
type LabelRecord struct {
	Entry      string            `json:"entry"`
	Attributes []AttributeRecord `json:"attributes,omitempty"`
}

// Snapshot is the persisted form of a document.
type Snapshot struct {
	Version int           `json:"version"`
	ID      ocaf.UUID     `json:"id"`
	Name    string        `json:"name"`
	Time    int           `json:"time"`
	Labels  []LabelRecord `json:"labels"`
}

// NewSnapshot captures the attached labels and persistent attributes of doc. Attributes that
// do not implement tdf.Persistent are skipped.
func NewSnapshot(doc *document.Document, m encoding.Marshaler) (*Snapshot, error) {
	s := &Snapshot{
		Version: ocaf.SnapshotFormatVersion,
		ID:      doc.ID(),
		Name:    doc.Name(),
		Time:    doc.Data().Time(),
	}
	err := doc.Data().Walk(func(l tdf.Label) error {
		lr := LabelRecord{Entry: l.Entry()}
		for _, a := range l.Attributes() {
			p, ok := a.(tdf.Persistent)
			if !ok {
				log.Debug("skipping transient attribute", "document", doc.Name(), "entry", lr.Entry, "kind", a.Kind().String())
				continue
			}
			ba, err := encoding.Marshal(m, p.Payload())
			if err != nil {
				return fmt.Errorf("encoding %s of %s failed, details: %w", a.Kind(), lr.Entry, err)
			}
			lr.Attributes = append(lr.Attributes, AttributeRecord{Kind: a.Kind().String(), Payload: ba})
		}
		s.Labels = append(s.Labels, lr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Document rebuilds a document from the snapshot. Unknown attribute kinds fail with UnknownKind.
func (s *Snapshot) Document(m encoding.Marshaler, opts ocaf.DocumentOptions) (*document.Document, error) {
	if s.Version > ocaf.SnapshotFormatVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", s.Version, ocaf.SnapshotFormatVersion)
	}
	dopts, err := tdf.OptionsFrom(opts.Data)
	if err != nil {
		return nil, err
	}
	data := tdf.New(append(dopts, tdf.WithTime(s.Time))...)
	for _, lr := range s.Labels {
		l, err := data.FindLabel(lr.Entry, true)
		if err != nil {
			data.Release()
			return nil, err
		}
		for _, ar := range lr.Attributes {
			a, err := decodeAttribute(m, ar)
			if err != nil {
				data.Release()
				return nil, ocaf.Error{Code: ocaf.UnknownKind, Err: err, UserData: lr.Entry}
			}
			if err := l.AddAttribute(a); err != nil {
				data.Release()
				return nil, err
			}
		}
	}
	return document.FromData(s.ID, s.Name, data, opts), nil
}

func decodeAttribute(m encoding.Marshaler, ar AttributeRecord) (tdf.Attribute, error) {
	k, ok := tdf.LookupKind(ar.Kind)
	if !ok {
		return nil, fmt.Errorf("attribute kind %q is not registered", ar.Kind)
	}
	p, ok := k.New().(tdf.Persistent)
	if !ok {
		return nil, fmt.Errorf("attribute kind %q is not persistent", ar.Kind)
	}
	if len(ar.Payload) > 0 {
		if err := encoding.Unmarshal(m, ar.Payload, p.Payload()); err != nil {
			return nil, fmt.Errorf("decoding %s failed, details: %w", ar.Kind, err)
		}
	}
	return p, nil
}

// Encode marshals doc to bytes with m.
func Encode(doc *document.Document, m encoding.Marshaler) ([]byte, error) {
	s, err := NewSnapshot(doc, m)
	if err != nil {
		return nil, err
	}
	return m.Marshal(s)
}

// Decode unmarshals a document encoded by Encode.
func Decode(ba []byte, m encoding.Marshaler, opts ocaf.DocumentOptions) (*document.Document, error) {
	var s Snapshot
	if err := m.Unmarshal(ba, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot failed, details: %w", err)
	}
	return s.Document(m, opts)
}
