package erasure

import (
	"bytes"
	"testing"
)

func sample() []byte {
	return []byte("the quick brown fox jumps over the lazy dog")
}

func TestEncodeDecode(t *testing.T) {
	c, err := New(4, 2)
	if err != nil {
		t.Fatalf("New failed, details: %v", err)
	}
	shards, err := c.Encode(sample())
	if err != nil {
		t.Fatalf("Encode failed, details: %v", err)
	}
	if len(shards) != 6 {
		t.Fatalf("got %d shards", len(shards))
	}
	// 43 bytes over 4 data shards pads 1 byte.
	if shards[0][0] != 1 {
		t.Fatalf("padding count %d, expected 1", shards[0][0])
	}
	r, err := c.Decode(shards)
	if err != nil {
		t.Fatalf("Decode failed, details: %v", err)
	}
	if !bytes.Equal(r.Data, sample()) || len(r.Reconstructed) != 0 {
		t.Fatalf("decoded %q, reconstructed %v", r.Data, r.Reconstructed)
	}
}

func TestBitrotAndMissingShards(t *testing.T) {
	c, _ := New(4, 2)
	shards, _ := c.Encode(sample())
	shards[1][MetadataSize+1] ^= 0xff
	shards[4] = nil

	r, err := c.Decode(shards)
	if err != nil {
		t.Fatalf("Decode failed, details: %v", err)
	}
	if !bytes.Equal(r.Data, sample()) {
		t.Fatalf("decoded %q", r.Data)
	}
	if len(r.Reconstructed) != 2 || r.Reconstructed[0] != 1 || r.Reconstructed[1] != 4 {
		t.Fatalf("reconstructed %v, expected [1 4]", r.Reconstructed)
	}
}

func TestTooManyLostShards(t *testing.T) {
	c, _ := New(4, 2)
	shards, _ := c.Encode(sample())
	shards[0], shards[2], shards[5] = nil, nil, nil
	if _, err := c.Decode(shards); err == nil {
		t.Fatalf("expected failure with 3 lost shards")
	}
}

func TestInvalidConfig(t *testing.T) {
	if _, err := New(200, 100); err == nil {
		t.Fatalf("expected error for more than 256 shards")
	}
	c, _ := New(2, 1)
	if _, err := c.Encode(nil); err == nil {
		t.Fatalf("expected error for empty data")
	}
}
