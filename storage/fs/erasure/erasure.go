// Package erasure splits snapshots into Reed-Solomon data and parity shards and joins them
// back, reconstructing missing or bit-rotted shards.
package erasure

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	log "log/slog"

	"github.com/klauspost/reedsolomon"
)

// MetadataSize is the per-shard header: 1 byte of padding count + md5 checksum (16 bytes).
const MetadataSize = 1 + md5.Size

// Coder encodes data into DataShards + ParityShards shards.
type Coder struct {
	DataShards   int
	ParityShards int
	enc          reedsolomon.Encoder
}

// New returns a Coder for the given shard counts.
func New(dataShards, parityShards int) (*Coder, error) {
	if dataShards+parityShards > 256 {
		return nil, fmt.Errorf("sum of data and parity shards cannot exceed 256")
	}
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, err
	}
	return &Coder{
		DataShards:   dataShards,
		ParityShards: parityShards,
		enc:          enc,
	}, nil
}

// Encode splits data into equally sized shards and computes the parity shards. Each returned
// shard is prefixed with its metadata header.
func (c *Coder) Encode(data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("can't encode empty data")
	}
	shards, err := c.enc.Split(bytes.Clone(data))
	if err != nil {
		return nil, err
	}
	if err := c.enc.Encode(shards); err != nil {
		return nil, err
	}
	padding := 0
	if r := len(data) % c.DataShards; r != 0 {
		padding = c.DataShards - r
	}
	out := make([][]byte, len(shards))
	for i, s := range shards {
		sum := md5.Sum(s)
		buf := make([]byte, MetadataSize+len(s))
		buf[0] = byte(padding)
		copy(buf[1:MetadataSize], sum[:])
		copy(buf[MetadataSize:], s)
		out[i] = buf
	}
	return out, nil
}

// Result is the outcome of Decode.
type Result struct {
	Data []byte
	// Reconstructed lists the indices of shards that were missing or corrupted. Callers may
	// rewrite them from a fresh Encode of Data.
	Reconstructed []int
}

// Decode joins shards produced by Encode. Missing shards are nil. Shards whose checksum does
// not match are treated as missing. At most ParityShards shards may be lost.
func (c *Coder) Decode(shards [][]byte) (*Result, error) {
	if len(shards) != c.DataShards+c.ParityShards {
		return nil, fmt.Errorf("got %d shards, want %d", len(shards), c.DataShards+c.ParityShards)
	}
	r := &Result{}
	bodies := make([][]byte, len(shards))
	padding := -1
	for i, s := range shards {
		if len(s) < MetadataSize {
			if s != nil {
				log.Warn("shard too short, reconstructing it", "shard", i, "size", len(s))
			}
			r.Reconstructed = append(r.Reconstructed, i)
			continue
		}
		sum := md5.Sum(s[MetadataSize:])
		if !bytes.Equal(sum[:], s[1:MetadataSize]) {
			log.Warn("shard checksum mismatch, reconstructing it", "shard", i)
			r.Reconstructed = append(r.Reconstructed, i)
			continue
		}
		bodies[i] = s[MetadataSize:]
		padding = int(s[0])
	}
	if len(r.Reconstructed) > c.ParityShards {
		return nil, fmt.Errorf("%d shards lost, at most %d can be reconstructed", len(r.Reconstructed), c.ParityShards)
	}
	if len(r.Reconstructed) > 0 {
		if err := c.enc.Reconstruct(bodies); err != nil {
			return nil, err
		}
	}
	if ok, err := c.enc.Verify(bodies); !ok {
		return nil, fmt.Errorf("shards failed verification after reconstruction, details: %v", err)
	}
	var b bytes.Buffer
	size := len(bodies[0])*c.DataShards - padding
	if err := c.enc.Join(&b, bodies, size); err != nil {
		return nil, fmt.Errorf("joining shards failed, details: %w", err)
	}
	r.Data = b.Bytes()
	return r, nil
}
