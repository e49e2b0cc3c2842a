package tdf

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/sharedcode/ocaf"
)

func TestUndoLabelCreation(t *testing.T) {
	d := New(WithAccessByEntries(true))
	d.OpenTransaction()
	l := mustLabel(t, d, "0:1:1")
	l.AddAttribute(&realAttr{value: 3.14})
	delta, err := d.CommitTransaction(true)
	if err != nil {
		t.Fatalf("commit failed, details: %v", err)
	}
	got, ok := d.GetLabel("0:1:1")
	if !ok || got != l {
		t.Fatalf("GetLabel(0:1:1) did not find the label")
	}
	if v, _ := realOf(got); v != 3.14 {
		t.Fatalf("real = %v", v)
	}
	if _, err := d.Undo(delta, false); err != nil {
		t.Fatalf("Undo failed, details: %v", err)
	}
	if _, ok := d.GetLabel("0:1:1"); ok {
		t.Fatalf("GetLabel found an undone label")
	}
	if _, ok := d.GetLabel("0:1"); ok {
		t.Fatalf("GetLabel found an undone father")
	}
	if d.Root().HasChild() {
		t.Fatalf("root still has children")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	d := New()
	d.OpenTransaction()
	a := mustLabel(t, d, "0:1")
	ra := &realAttr{value: 1}
	a.AddAttribute(ra)
	a.AddAttribute(&nameAttr{value: "a"})
	d.CommitTransaction(false)
	s0 := snapshot(d)

	d.OpenTransaction()
	ra.set(2)
	a.RemoveAttribute(nameKind)
	b := mustLabel(t, d, "0:1:7")
	b.AddAttribute(&nameAttr{value: "b"})
	d.Root().AddAttribute(&realAttr{value: 0.5})
	delta, _ := d.CommitTransaction(true)
	delta.SetName("edit")
	s1 := snapshot(d)

	redo, err := d.Undo(delta, true)
	if err != nil {
		t.Fatalf("Undo failed, details: %v", err)
	}
	if !slices.Equal(s0, snapshot(d)) {
		t.Fatalf("undo gave %v, want %v", snapshot(d), s0)
	}
	if redo.Name() != "edit" || redo.IsEmpty() {
		t.Fatalf("redo delta %q with %d entries", redo.Name(), redo.Len())
	}
	if b.IsAttached() {
		t.Fatalf("label 0:1:7 still attached")
	}

	again, err := d.Undo(redo, true)
	if err != nil {
		t.Fatalf("redo failed, details: %v", err)
	}
	if !slices.Equal(s1, snapshot(d)) {
		t.Fatalf("redo gave %v, want %v", snapshot(d), s1)
	}
	if !b.IsAttached() || b.Entry() != "0:1:7" {
		t.Fatalf("label 0:1:7 not reattached as the same label")
	}

	if _, err := d.Undo(again, false); err != nil {
		t.Fatalf("second undo failed, details: %v", err)
	}
	if !slices.Equal(s0, snapshot(d)) {
		t.Fatalf("second undo gave %v", snapshot(d))
	}
}

func TestDeltaOrdering(t *testing.T) {
	d := New()
	a := mustLabel(t, d, "0:2")
	ra := &realAttr{value: 1}
	a.AddAttribute(ra)
	a.AddAttribute(&nameAttr{value: "n"})

	d.OpenTransaction()
	a.RemoveAttribute(nameKind)
	ra.set(5)
	c := mustLabel(t, d, "0:3:1")
	c.AddAttribute(&realAttr{value: 2})
	d.Root().AddAttribute(&nameAttr{value: "root"})
	delta, _ := d.CommitTransaction(true)

	var got []string
	for _, e := range delta.Entries() {
		got = append(got, e.String())
	}
	want := []string{
		"OnModification 0:2 test.Real",
		"OnRemoval 0:2 test.Name",
		"OnAddition 0:3:1 test.Real",
		"OnAddition 0 test.Name",
		"OnLabelAddition 0:3:1",
		"OnLabelAddition 0:3",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("order\n got %v\nwant %v", got, want)
	}

	redo, err := d.Undo(delta, true)
	if err != nil {
		t.Fatalf("Undo failed, details: %v", err)
	}
	es := redo.Entries()
	if es[0].Kind != OnLabelRemoval || es[0].Label.Entry() != "0:3" || es[1].Label.Entry() != "0:3:1" {
		t.Fatalf("re-attachments not shallowest first: %v", es)
	}
	labels := redo.Labels()
	if len(labels) != 4 {
		t.Fatalf("redo touches %d labels", len(labels))
	}
}

func TestInapplicableDeltaIsRejected(t *testing.T) {
	d := New()
	d.OpenTransaction()
	l := mustLabel(t, d, "0:1")
	r := &realAttr{value: 1}
	l.AddAttribute(r)
	first, _ := d.CommitTransaction(true)

	d.OpenTransaction()
	mustLabel(t, d, "0:1:1")
	d.CommitTransaction(false)

	before := snapshot(d)
	if d.IsApplicable(first) {
		t.Fatalf("delta creating 0:1 applicable while 0:1:1 exists")
	}
	_, err := d.Undo(first, true)
	if !ocaf.IsCode(err, ocaf.InapplicableDelta) {
		t.Fatalf("got %v, want InapplicableDelta", err)
	}
	if !slices.Equal(before, snapshot(d)) {
		t.Fatalf("rejected undo changed the tree")
	}
	if d.Transaction() != 0 || d.Time() != 2 {
		t.Fatalf("rejected undo changed transaction state")
	}
	if !l.HasAttribute(realKind) {
		t.Fatalf("rejected undo removed the attribute")
	}
}

func TestModificationDeltaNeedsAttribute(t *testing.T) {
	d := New()
	l := mustLabel(t, d, "0:1")
	r := &realAttr{value: 1}
	l.AddAttribute(r)

	d.OpenTransaction()
	r.set(2)
	mod, _ := d.CommitTransaction(true)
	d.OpenTransaction()
	l.RemoveAttribute(realKind)
	d.CommitTransaction(false)

	if d.IsApplicable(mod) {
		t.Fatalf("modification applicable without the attribute")
	}
	if d.IsApplicable(nil) {
		t.Fatalf("nil delta applicable")
	}
	other := New()
	if other.IsApplicable(mod) {
		t.Fatalf("delta applicable to another tree")
	}
}

func TestEntryIndex(t *testing.T) {
	d := New()
	mustLabel(t, d, "0:4:2")
	if d.IsAccessByEntries() {
		t.Fatalf("index on by default")
	}
	if l, ok := d.GetLabel("0:4:2"); !ok || l.Entry() != "0:4:2" {
		t.Fatalf("GetLabel without index failed")
	}
	d.SetAccessByEntries(true)
	if _, ok := d.GetLabel("0:4"); !ok {
		t.Fatalf("existing label not indexed")
	}
	if _, ok := d.GetLabel("0.4.2"); !ok {
		t.Fatalf("dotted entry not accepted")
	}
	mustLabel(t, d, "0:4:3")
	if _, ok := d.GetLabel("0:4:3"); !ok {
		t.Fatalf("new label not indexed")
	}
	d.SetAccessByEntries(false)
	if d.IsAccessByEntries() {
		t.Fatalf("index still on")
	}
	if _, ok := d.GetLabel("0:9"); ok {
		t.Fatalf("found a missing label")
	}
	for _, bad := range []string{"", "x", "1:2", "0:-1"} {
		if _, err := d.FindLabel(bad, false); !ocaf.IsCode(err, ocaf.InvalidEntry) {
			t.Fatalf("FindLabel(%q) err = %v", bad, err)
		}
	}
}

func TestEntryLookupIgnoresIndex(t *testing.T) {
	d := New()
	mustLabel(t, d, "0:1:2")
	entries := map[string]bool{
		"0:1:2":  true,
		"0.1.2":  true,
		"0:1.2":  true,
		"0:01:2": false,
		"0:1:2:": false,
		"0::1:2": false,
		":0:1:2": false,
		"0:+1:2": false,
		"00:1:2": false,
		"1:2":    false,
		"0:1:3":  false,
	}
	for _, on := range []bool{false, true} {
		d.SetAccessByEntries(on)
		for entry, want := range entries {
			l, ok := d.GetLabel(entry)
			if ok != want {
				t.Errorf("index %v: GetLabel(%q) found = %v, want %v", on, entry, ok, want)
			}
			if ok && l.Entry() != "0:1:2" {
				t.Errorf("index %v: GetLabel(%q) = %s", on, entry, l.Entry())
			}
		}
	}
	for _, bad := range []string{"0:01:2", "0:1:2:", "0::1:2", "0:1:2."} {
		if _, err := ParseEntry(bad); !ocaf.IsCode(err, ocaf.InvalidEntry) {
			t.Errorf("ParseEntry(%q) err = %v", bad, err)
		}
	}
}

func TestUndoRemovalOfReusedAttribute(t *testing.T) {
	d := New()
	d.OpenTransaction()
	a := mustLabel(t, d, "0:1")
	ra := &realAttr{value: 1}
	a.AddAttribute(ra)
	d.CommitTransaction(false)

	d.OpenTransaction()
	a.RemoveAttribute(realKind)
	removal, _ := d.CommitTransaction(true)

	d.OpenTransaction()
	b := mustLabel(t, d, "0:2")
	if err := b.AddAttribute(ra); err != nil {
		t.Fatalf("AddAttribute of a removed attribute failed, details: %v", err)
	}
	d.CommitTransaction(false)
	before := snapshot(d)

	if d.IsApplicable(removal) {
		t.Fatalf("removal delta applicable while its attribute is on 0:2")
	}
	if _, err := d.Undo(removal, false); !ocaf.IsCode(err, ocaf.InapplicableDelta) {
		t.Fatalf("Undo err = %v, want InapplicableDelta", err)
	}
	if !slices.Equal(before, snapshot(d)) {
		t.Fatalf("rejected undo changed the tree: %v", snapshot(d))
	}
	if a.HasAttribute(realKind) || ra.Label() != b {
		t.Fatalf("attribute owned by %s, 0:1 holds real = %v", ra.Label(), a.HasAttribute(realKind))
	}

	d.OpenTransaction()
	b.RemoveAttribute(realKind)
	d.CommitTransaction(false)
	if _, err := d.Undo(removal, false); err != nil {
		t.Fatalf("Undo after release failed, details: %v", err)
	}
	if held, ok := a.Attribute(realKind); !ok || held != ra || ra.Label() != a {
		t.Fatalf("attribute not back on 0:1")
	}
}

func TestUndoAttributeMove(t *testing.T) {
	d := New()
	a := mustLabel(t, d, "0:1")
	b := mustLabel(t, d, "0:2")
	ra := &realAttr{value: 1}
	a.AddAttribute(ra)
	s0 := snapshot(d)

	d.OpenTransaction()
	a.RemoveAttribute(realKind)
	b.AddAttribute(ra)
	move, _ := d.CommitTransaction(true)
	if _, err := d.Undo(move, false); err != nil {
		t.Fatalf("Undo of a move failed, details: %v", err)
	}
	if !slices.Equal(s0, snapshot(d)) || ra.Label() != a {
		t.Fatalf("undo gave %v, owner %s", snapshot(d), ra.Label())
	}

	d.OpenTransaction()
	a.RemoveAttribute(realKind)
	b.AddAttribute(ra)
	if err := d.AbortTransaction(); err != nil {
		t.Fatalf("abort failed, details: %v", err)
	}
	if !slices.Equal(s0, snapshot(d)) || ra.Label() != a {
		t.Fatalf("abort gave %v, owner %s", snapshot(d), ra.Label())
	}
}

func TestUndoOlderModificationWins(t *testing.T) {
	d := New()
	a := mustLabel(t, d, "0:1")
	ra := &realAttr{value: 1}
	a.AddAttribute(ra)

	d.OpenTransaction()
	ra.set(2)
	first, _ := d.CommitTransaction(true)
	d.OpenTransaction()
	ra.set(3)
	d.CommitTransaction(true)

	if !d.IsApplicable(first) {
		t.Fatalf("older modification delta not applicable")
	}
	if _, err := d.Undo(first, false); err != nil {
		t.Fatalf("Undo failed, details: %v", err)
	}
	if v, _ := realOf(a); v != 1 {
		t.Fatalf("real = %v, want the value saved by the older delta", v)
	}
}

func TestRecreateUndoneLabel(t *testing.T) {
	d := New()
	d.OpenTransaction()
	l := mustLabel(t, d, "0:1")
	delta, _ := d.CommitTransaction(true)
	d.Undo(delta, false)

	d.OpenTransaction()
	again := mustLabel(t, d, "0:1")
	d.CommitTransaction(false)
	if again != l || !l.IsAttached() || d.Root().NbChildren() != 1 {
		t.Fatalf("recreation did not reuse the detached label")
	}
	if _, err := l.FindChild(1, true); err != nil {
		t.Fatalf("FindChild on reattached label failed, details: %v", err)
	}
}

func TestDetachedLabelIsReadOnly(t *testing.T) {
	d := New()
	d.OpenTransaction()
	l := mustLabel(t, d, "0:1")
	delta, _ := d.CommitTransaction(true)
	d.Undo(delta, false)
	if err := l.AddAttribute(&realAttr{}); !ocaf.IsCode(err, ocaf.DetachedLabel) {
		t.Fatalf("AddAttribute on detached label err = %v", err)
	}
	if _, err := l.FindChild(3, true); !ocaf.IsCode(err, ocaf.DetachedLabel) {
		t.Fatalf("FindChild on detached label err = %v", err)
	}
}

func TestDump(t *testing.T) {
	d := New()
	l := mustLabel(t, d, "0:1")
	l.AddAttribute(&realAttr{value: 2.5})
	l.AddAttribute(&nameAttr{value: "part"})
	mustLabel(t, d, "0:1:3")

	var buf bytes.Buffer
	if err := d.Dump(&buf); err != nil {
		t.Fatalf("Dump failed, details: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "0:1 [test.Real: 2.5] [test.Name: part]") || !strings.Contains(out, "    0:1:3") {
		t.Fatalf("unexpected dump:\n%s", out)
	}

	buf.Reset()
	if err := d.DumpJSON(&buf, 1); err != nil {
		t.Fatalf("DumpJSON failed, details: %v", err)
	}
	js := buf.String()
	if !strings.Contains(js, `"entry": "0:1"`) || strings.Contains(js, "0:1:3") {
		t.Fatalf("unexpected json:\n%s", js)
	}

	d.OpenTransaction()
	l.RemoveAttribute(nameKind)
	delta, _ := d.CommitTransaction(true)
	buf.Reset()
	delta.Dump(&buf)
	if !strings.Contains(buf.String(), "OnRemoval 0:1 test.Name") {
		t.Fatalf("unexpected delta dump:\n%s", buf.String())
	}
}
