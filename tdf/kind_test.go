package tdf

import "testing"

func TestKindRegistry(t *testing.T) {
	k, ok := LookupKind("test.Real")
	if !ok || k != realKind {
		t.Fatalf("LookupKind(test.Real) = %v, %v", k, ok)
	}
	if realKind.String() != "test.Real" {
		t.Fatalf("got kind name %q", realKind.String())
	}
	if _, ok := realKind.New().(*realAttr); !ok {
		t.Fatalf("factory did not return a *realAttr")
	}
	if NoKind.IsRegistered() || NoKind.New() != nil {
		t.Fatalf("NoKind must not be registered")
	}
	found := false
	for _, k := range Kinds() {
		if k == nameKind {
			found = true
		}
	}
	if !found {
		t.Fatalf("Kinds() misses test.Name")
	}
}

func TestRegisterKindTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate kind name")
		}
	}()
	RegisterKind("test.Real", nil)
}
