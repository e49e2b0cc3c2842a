package encoding

import (
	"bytes"
	"testing"
)

type sample struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

func TestMarshalers(t *testing.T) {
	cm, err := NewCBORMarshaler()
	if err != nil {
		t.Fatalf("NewCBORMarshaler failed, details: %v", err)
	}
	for name, m := range map[string]Marshaler{"json": DefaultMarshaler, "cbor": cm} {
		in := sample{Name: "part", Values: []float64{1.5, 2}}
		ba, err := m.Marshal(in)
		if err != nil {
			t.Fatalf("%s Marshal failed, details: %v", name, err)
		}
		var out sample
		if err := m.Unmarshal(ba, &out); err != nil {
			t.Fatalf("%s Unmarshal failed, details: %v", name, err)
		}
		if out.Name != in.Name || len(out.Values) != 2 || out.Values[0] != 1.5 {
			t.Fatalf("%s decoded %+v", name, out)
		}
	}
}

func TestCBORIsDeterministic(t *testing.T) {
	m, _ := NewCBORMarshaler()
	a, _ := m.Marshal(map[string]int{"b": 2, "a": 1, "c": 3})
	b, _ := m.Marshal(map[string]int{"c": 3, "a": 1, "b": 2})
	if !bytes.Equal(a, b) {
		t.Fatalf("map encoding depends on insertion order")
	}
}

func TestByteArrayPassThrough(t *testing.T) {
	raw := []byte{0, 1, 2, 250}
	ba, err := Marshal(DefaultMarshaler, &raw)
	if err != nil || !bytes.Equal(ba, raw) {
		t.Fatalf("Marshal did not pass bytes through: %v, %v", ba, err)
	}
	var out []byte
	if err := Unmarshal(DefaultMarshaler, ba, &out); err != nil || !bytes.Equal(out, raw) {
		t.Fatalf("Unmarshal did not pass bytes through: %v, %v", out, err)
	}
	var s string
	if err := Unmarshal(DefaultMarshaler, []byte(`"x"`), &s); err != nil || s != "x" {
		t.Fatalf("Unmarshal of string = %q, %v", s, err)
	}
}

func TestByFormat(t *testing.T) {
	if m, err := ByFormat(""); err != nil || m != DefaultMarshaler {
		t.Fatalf("empty format did not select json")
	}
	if _, err := ByFormat("cbor"); err != nil {
		t.Fatalf("cbor format failed, details: %v", err)
	}
	if _, err := ByFormat("xml"); err == nil {
		t.Fatalf("unknown format accepted")
	}
}
