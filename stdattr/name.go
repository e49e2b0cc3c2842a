package stdattr

import "github.com/sharedcode/ocaf/tdf"

// Name holds the user visible name of a label.
type Name struct {
	tdf.AttributeBase
	Value string `json:"value"`
}

// NameKind is the kind of Name attributes.
var NameKind = tdf.RegisterKind("Name", func() tdf.Attribute { return &Name{} })

func (n *Name) Kind() tdf.Kind            { return NameKind }
func (n *Name) BackupCopy() tdf.Attribute { return &Name{Value: n.Value} }
func (n *Name) Restore(from tdf.Attribute) {
	if o, ok := from.(*Name); ok {
		n.Value = o.Value
	}
}
func (n *Name) Payload() any   { return &n.Value }
func (n *Name) String() string { return n.Value }

func (n *Name) Set(v string) {
	if n.Value == v {
		return
	}
	n.Backup()
	n.Value = v
}

func (n *Name) Get() string {
	return n.Value
}

// SetName finds or creates the Name of l and sets it to v.
func SetName(l tdf.Label, v string) (*Name, error) {
	a, err := findOrAdd(l, NameKind, func() *Name { return &Name{Value: v} })
	if err != nil {
		return nil, err
	}
	a.Set(v)
	return a, nil
}

// GetName returns the Name of l.
func GetName(l tdf.Label) (string, bool) {
	a, ok := find[*Name](l, NameKind)
	if !ok {
		return "", false
	}
	return a.Value, true
}

// Comment holds free text attached to a label.
type Comment struct {
	tdf.AttributeBase
	Value string `json:"value"`
}

// CommentKind is the kind of Comment attributes.
var CommentKind = tdf.RegisterKind("Comment", func() tdf.Attribute { return &Comment{} })

func (c *Comment) Kind() tdf.Kind            { return CommentKind }
func (c *Comment) BackupCopy() tdf.Attribute { return &Comment{Value: c.Value} }
func (c *Comment) Restore(from tdf.Attribute) {
	if o, ok := from.(*Comment); ok {
		c.Value = o.Value
	}
}
func (c *Comment) Payload() any   { return &c.Value }
func (c *Comment) String() string { return c.Value }

func (c *Comment) Set(v string) {
	if c.Value == v {
		return
	}
	c.Backup()
	c.Value = v
}

// SetComment finds or creates the Comment of l and sets it to v.
func SetComment(l tdf.Label, v string) (*Comment, error) {
	a, err := findOrAdd(l, CommentKind, func() *Comment { return &Comment{Value: v} })
	if err != nil {
		return nil, err
	}
	a.Set(v)
	return a, nil
}

func GetComment(l tdf.Label) (string, bool) {
	a, ok := find[*Comment](l, CommentKind)
	if !ok {
		return "", false
	}
	return a.Value, true
}
