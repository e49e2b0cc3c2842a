package redis

import (
	"context"
	"testing"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/storage"
)

func TestDriverOverMock(t *testing.T) {
	ctx := context.Background()
	d := New(NewMockClient(), "", 0)

	if err := d.Put(ctx, "b", []byte("beta")); err != nil {
		t.Fatalf("Put failed, details: %v", err)
	}
	if err := d.Put(ctx, "a", []byte("alpha")); err != nil {
		t.Fatalf("Put failed, details: %v", err)
	}
	ba, err := d.Get(ctx, "a")
	if err != nil || string(ba) != "alpha" {
		t.Fatalf("Get got %q, %v, want alpha", ba, err)
	}
	names, err := d.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("List got %v, want [a b]", names)
	}
	if err := d.Remove(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Get(ctx, "a"); !ocaf.IsCode(err, ocaf.StorageNotFound) {
		t.Errorf("Get after Remove got %v, want not found", err)
	}
}

func TestDriverDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := New(NewMockClient(), "test:", 0)
	mem := storage.NewMemoryDriver()
	// Same bytes come back regardless of the backend.
	for _, drv := range []storage.Driver{d, mem} {
		if err := drv.Put(ctx, "doc", []byte{1, 2, 3}); err != nil {
			t.Fatal(err)
		}
		ba, err := drv.Get(ctx, "doc")
		if err != nil || len(ba) != 3 || ba[2] != 3 {
			t.Errorf("got %v, %v", ba, err)
		}
	}
}

func TestOptionsFrom(t *testing.T) {
	o := OptionsFrom(ocaf.RedisCacheConfig{DB: 2})
	if o.Address != "localhost:6379" || o.DB != 2 {
		t.Errorf("unexpected options %+v", o)
	}
}
