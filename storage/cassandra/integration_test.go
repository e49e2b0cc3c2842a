//go:build integration
// +build integration

package cassandra

import (
	"context"
	"testing"

	"github.com/sharedcode/ocaf"
)

func TestDriverIntegration(t *testing.T) {
	ctx := context.Background()
	c, err := OpenConnection(Config{ClusterHosts: []string{"localhost:9042"}, Keyspace: "ocaf_test"})
	if err != nil {
		t.Fatalf("OpenConnection failed, details: %v", err)
	}
	defer CloseConnection()
	d, err := New(c)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Put(ctx, "doc", []byte("payload")); err != nil {
		t.Fatal(err)
	}
	ba, err := d.Get(ctx, "doc")
	if err != nil || string(ba) != "payload" {
		t.Fatalf("Get got %q, %v", ba, err)
	}
	if err := d.Remove(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Get(ctx, "doc"); !ocaf.IsCode(err, ocaf.StorageNotFound) {
		t.Errorf("got %v after remove, want not found", err)
	}
}
