package tdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/arena"
)

// EntrySeparator separates tags in entry strings. '.' is also accepted when parsing.
const EntrySeparator = ':'

// ParseEntry splits an entry string such as "0:1:3" (or "0.1.3") into its tags. Tags are
// decimal numbers without sign or leading zeros; empty tags are rejected.
func ParseEntry(entry string) ([]int, error) {
	if entry == "" {
		return nil, newError(ocaf.InvalidEntry, ErrInvalidEntry, entry)
	}
	parts := strings.FieldsFunc(entry, func(r rune) bool {
		return r == EntrySeparator || r == '.'
	})
	if n := strings.Count(entry, string(EntrySeparator)) + strings.Count(entry, "."); len(parts) != n+1 {
		return nil, newError(ocaf.InvalidEntry, fmt.Errorf("%w: empty tag", ErrInvalidEntry), entry)
	}
	tags := make([]int, len(parts))
	for i, p := range parts {
		if !canonicalTag(p) {
			return nil, newError(ocaf.InvalidEntry, fmt.Errorf("%w: bad tag %q", ErrInvalidEntry, p), entry)
		}
		t, err := strconv.Atoi(p)
		if err != nil {
			return nil, newError(ocaf.InvalidEntry, fmt.Errorf("%w: bad tag %q", ErrInvalidEntry, p), entry)
		}
		tags[i] = t
	}
	return tags, nil
}

func canonicalTag(p string) bool {
	if p == "" || (len(p) > 1 && p[0] == '0') {
		return false
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// formatEntry joins tags the way Label.Entry prints them.
func formatEntry(tags []int) string {
	var sb strings.Builder
	for i, t := range tags {
		if i > 0 {
			sb.WriteByte(EntrySeparator)
		}
		sb.WriteString(strconv.Itoa(t))
	}
	return sb.String()
}

// SetAccessByEntries turns the entry index on or off. Turning it on indexes every attached
// label; turning it off drops the index.
func (d *Data) SetAccessByEntries(on bool) {
	if d.released {
		return
	}
	if !on {
		d.entries = nil
		return
	}
	if d.entries != nil {
		return
	}
	d.entries = make(map[string]arena.Index)
	d.walk(d.root, func(l Label) error {
		d.entries[l.Entry()] = l.idx
		return nil
	})
}

// IsAccessByEntries reports whether the entry index is on.
func (d *Data) IsAccessByEntries() bool {
	return d.entries != nil
}

// GetLabel returns the attached label with the given entry. It uses the entry index when on
// and walks the tree otherwise.
func (d *Data) GetLabel(entry string) (Label, bool) {
	if d.released {
		return Label{}, false
	}
	if d.entries != nil {
		tags, err := ParseEntry(entry)
		if err != nil {
			return Label{}, false
		}
		idx, ok := d.entries[formatEntry(tags)]
		if !ok {
			return Label{}, false
		}
		return Label{data: d, idx: idx}, true
	}
	l, err := d.FindLabel(entry, false)
	if err != nil || l.IsNull() {
		return Label{}, false
	}
	return l, true
}

// FindLabel resolves entry by walking the tree from the root, creating missing labels when
// create is set. A missing label without create yields the null label and no error.
func (d *Data) FindLabel(entry string, create bool) (Label, error) {
	if err := d.live(); err != nil {
		return Label{}, err
	}
	tags, err := ParseEntry(entry)
	if err != nil {
		return Label{}, err
	}
	if tags[0] != 0 {
		return Label{}, newError(ocaf.InvalidEntry, fmt.Errorf("%w: root tag must be 0", ErrInvalidEntry), entry)
	}
	l := d.Root()
	for _, t := range tags[1:] {
		if l, err = l.FindChild(t, create); err != nil || l.IsNull() {
			return Label{}, err
		}
	}
	return l, nil
}

func (d *Data) index(l Label) {
	if d.entries != nil {
		d.entries[l.Entry()] = l.idx
	}
}

func (d *Data) unindex(l Label) {
	if d.entries != nil {
		delete(d.entries, l.Entry())
	}
}
