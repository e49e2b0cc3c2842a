package tdf

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

func attributeText(a Attribute) string {
	if s, ok := a.(fmt.Stringer); ok {
		return s.String()
	}
	return a.Kind().String()
}

// Dump writes an indented listing of the attached labels and their attributes.
func (d *Data) Dump(w io.Writer) error {
	if err := d.live(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Data time %d, open transactions %d, labels %d\n", d.time, d.transaction, d.nodes.Len()); err != nil {
		return err
	}
	return d.Walk(func(l Label) error {
		var sb strings.Builder
		sb.WriteString(strings.Repeat("  ", l.Depth()))
		sb.WriteString(l.Entry())
		for _, a := range l.Attributes() {
			fmt.Fprintf(&sb, " [%s: %s]", a.Kind(), attributeText(a))
		}
		sb.WriteByte('\n')
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// LabelInfo is the JSON shape of a label written by DumpJSON.
type LabelInfo struct {
	Entry       string          `json:"entry"`
	Tag         int             `json:"tag"`
	Transaction int             `json:"transaction"`
	Attributes  []AttributeInfo `json:"attributes,omitempty"`
	Children    []LabelInfo     `json:"children,omitempty"`
}

// AttributeInfo is the JSON shape of an attribute written by DumpJSON.
type AttributeInfo struct {
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

// Info describes l and its attached descendants down to depth levels (negative for all).
func (l Label) Info(depth int) LabelInfo {
	li := LabelInfo{
		Entry:       l.Entry(),
		Tag:         l.Tag(),
		Transaction: l.Transaction(),
	}
	for _, a := range l.Attributes() {
		ai := AttributeInfo{Kind: a.Kind().String()}
		if p, ok := a.(Persistent); ok {
			ai.Value = p.Payload()
		} else {
			ai.Value = attributeText(a)
		}
		li.Attributes = append(li.Attributes, ai)
	}
	if depth == 0 {
		return li
	}
	for _, c := range l.Children() {
		li.Children = append(li.Children, c.Info(depth-1))
	}
	return li
}

// DumpJSON writes the tree as indented JSON, depth levels deep (negative for all).
func (d *Data) DumpJSON(w io.Writer, depth int) error {
	if err := d.live(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d.Root().Info(depth))
}
