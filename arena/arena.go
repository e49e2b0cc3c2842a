// Package arena provides a block (segment) allocator for fixed-size values addressed by
// int32 indices. Blocks are never freed individually; the whole arena is released at once.
package arena

import (
	"errors"
	"fmt"
	"unsafe"
)

// Index addresses a slot in an Arena. Nil marks "no slot".
type Index int32

// Nil is the index of no slot.
const Nil Index = -1

const (
	defaultBlockBytes = 32 * 1024
	minBlockCapacity  = 64
	maxIndex          = 1<<31 - 1
)

// ErrExhausted is returned when the arena cannot allocate another block.
var ErrExhausted = errors.New("arena exhausted")

// Stats reports the arena's current footprint.
type Stats struct {
	Blocks        int
	BlockCapacity int
	Allocated     int
	ReservedBytes int64
}

// Arena is a bump allocator over a chain of fixed-capacity blocks of T.
// It is not safe for concurrent use.
type Arena[T any] struct {
	blocks        [][]T
	blockCapacity int
	maxBlocks     int
	count         int
}

// Option is a configuration option for an Arena.
type Option func(*config)

type config struct {
	blockCapacity int
	maxBlocks     int
}

// WithBlockCapacity sets the number of elements per block. Values <= 0 keep the default.
func WithBlockCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.blockCapacity = n
		}
	}
}

// WithMaxBlocks bounds the number of blocks the arena may allocate. Zero means unbounded.
func WithMaxBlocks(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxBlocks = n
		}
	}
}

// DefaultBlockCapacity returns the number of T that fit a block of about 32 KiB, at least 64.
func DefaultBlockCapacity[T any]() int {
	var zero T
	sz := int(unsafe.Sizeof(zero))
	if sz == 0 {
		return minBlockCapacity
	}
	n := defaultBlockBytes / sz
	if n < minBlockCapacity {
		n = minBlockCapacity
	}
	return n
}

// New creates an empty arena. No block is allocated until the first Alloc.
func New[T any](opts ...Option) *Arena[T] {
	c := config{blockCapacity: DefaultBlockCapacity[T]()}
	for _, o := range opts {
		o(&c)
	}
	return &Arena[T]{
		blockCapacity: c.blockCapacity,
		maxBlocks:     c.maxBlocks,
	}
}

// Alloc returns a zeroed slot and its index.
func (a *Arena[T]) Alloc() (Index, *T, error) {
	if a.count == len(a.blocks)*a.blockCapacity {
		if err := a.extend(); err != nil {
			return Nil, nil, err
		}
	}
	idx := Index(a.count)
	a.count++
	return idx, a.At(idx), nil
}

func (a *Arena[T]) extend() error {
	if a.maxBlocks > 0 && len(a.blocks) >= a.maxBlocks {
		return fmt.Errorf("%w: max blocks %d reached", ErrExhausted, a.maxBlocks)
	}
	if (len(a.blocks)+1)*a.blockCapacity > maxIndex {
		return fmt.Errorf("%w: index space exhausted", ErrExhausted)
	}
	a.blocks = append(a.blocks, make([]T, a.blockCapacity))
	return nil
}

// At returns the slot at idx, or nil if idx was never allocated.
func (a *Arena[T]) At(idx Index) *T {
	if idx < 0 || int(idx) >= a.count {
		return nil
	}
	return &a.blocks[int(idx)/a.blockCapacity][int(idx)%a.blockCapacity]
}

// Len returns the number of allocated slots.
func (a *Arena[T]) Len() int {
	return a.count
}

// Stats returns the current block usage.
func (a *Arena[T]) Stats() Stats {
	var zero T
	return Stats{
		Blocks:        len(a.blocks),
		BlockCapacity: a.blockCapacity,
		Allocated:     a.count,
		ReservedBytes: int64(len(a.blocks)) * int64(a.blockCapacity) * int64(unsafe.Sizeof(zero)),
	}
}

// Release drops every block. Slots and pointers obtained earlier must not be used afterwards.
func (a *Arena[T]) Release() {
	a.blocks = nil
	a.count = 0
}
