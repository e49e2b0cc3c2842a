// Package tdf implements the transactional label tree: labels addressed by tag paths, typed
// attributes, nested transactions producing deltas, and undo of those deltas.
//
// A Data and everything reachable from it is single-threaded. Callers serialize access.
package tdf

import (
	"fmt"
	log "log/slog"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/arena"
)

// AbortPolicy selects what AbortTransaction does with the changes of the aborted transaction.
type AbortPolicy int

const (
	// AbortRollback reverts every change recorded in the aborted transaction.
	AbortRollback AbortPolicy = iota
	// AbortLogOnly discards the recorded changes and leaves the tree as it is.
	AbortLogOnly
)

func (p AbortPolicy) String() string {
	switch p {
	case AbortRollback:
		return ocaf.AbortRollback
	case AbortLogOnly:
		return ocaf.AbortLogOnly
	}
	return fmt.Sprintf("AbortPolicy(%d)", int(p))
}

// ParseAbortPolicy converts a configuration value to an AbortPolicy. Empty means rollback.
func ParseAbortPolicy(s string) (AbortPolicy, error) {
	switch s {
	case "", ocaf.AbortRollback:
		return AbortRollback, nil
	case ocaf.AbortLogOnly:
		return AbortLogOnly, nil
	}
	return AbortRollback, fmt.Errorf("unknown abort policy %q", s)
}

type config struct {
	arenaOptions    []arena.Option
	accessByEntries bool
	abortPolicy     AbortPolicy
	time            int
}

// Option configures a Data.
type Option func(*config)

// WithBlockCapacity sets the number of label nodes per arena block.
func WithBlockCapacity(n int) Option {
	return func(c *config) {
		c.arenaOptions = append(c.arenaOptions, arena.WithBlockCapacity(n))
	}
}

// WithMaxBlocks bounds the label arena. Label creation fails with AllocationFailure beyond it.
func WithMaxBlocks(n int) Option {
	return func(c *config) {
		c.arenaOptions = append(c.arenaOptions, arena.WithMaxBlocks(n))
	}
}

// WithAccessByEntries enables the entry index from creation.
func WithAccessByEntries(on bool) Option {
	return func(c *config) {
		c.accessByEntries = on
	}
}

// WithAbortPolicy sets the abort policy.
func WithAbortPolicy(p AbortPolicy) Option {
	return func(c *config) {
		c.abortPolicy = p
	}
}

// WithTime starts the commit counter at t, as for a tree reloaded from storage.
func WithTime(t int) Option {
	return func(c *config) {
		c.time = max(t, 0)
	}
}

// OptionsFrom converts configuration file options to Data options.
func OptionsFrom(o ocaf.DataOptions) ([]Option, error) {
	p, err := ParseAbortPolicy(o.AbortPolicy)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithBlockCapacity(o.Arena.BlockCapacity),
		WithMaxBlocks(o.Arena.MaxBlocks),
		WithAccessByEntries(o.AccessByEntries),
		WithAbortPolicy(p),
	}, nil
}

// Data owns a label tree, the arena its nodes live in, and the transaction state.
type Data struct {
	nodes       *arena.Arena[node]
	root        arena.Index
	transaction int
	time        int
	buckets     []*bucket
	// suspended > 0 stops delta recording (rollback of an aborted transaction).
	suspended   int
	entries     map[string]arena.Index
	abortPolicy AbortPolicy
	released    bool
}

// New creates a Data holding only the root label (entry "0").
func New(opts ...Option) *Data {
	var c config
	for _, o := range opts {
		o(&c)
	}
	d := &Data{
		nodes:       arena.New[node](c.arenaOptions...),
		abortPolicy: c.abortPolicy,
		time:        c.time,
	}
	idx, n, err := d.nodes.Alloc()
	if err != nil {
		// First block always fits the root.
		panic(err)
	}
	*n = node{
		father:      arena.Nil,
		firstChild:  arena.Nil,
		lastChild:   arena.Nil,
		nextSibling: arena.Nil,
		attached:    true,
	}
	d.root = idx
	if c.accessByEntries {
		d.SetAccessByEntries(true)
	}
	return d
}

func (d *Data) node(idx arena.Index) *node {
	if d.released {
		return nil
	}
	return d.nodes.At(idx)
}

func (d *Data) live() error {
	if d.released {
		return newError(ocaf.DataReleased, ErrReleased, nil)
	}
	return nil
}

// Root returns the root label, or the null label once released.
func (d *Data) Root() Label {
	if d.released {
		return Label{}
	}
	return Label{data: d, idx: d.root}
}

// Transaction returns the number of open transactions.
func (d *Data) Transaction() int {
	return d.transaction
}

// Time returns the number of committed transactions.
func (d *Data) Time() int {
	return d.time
}

// NbTouchedAttributes returns the number of recorded changes in the innermost open
// transaction, including those folded in from committed nested transactions.
func (d *Data) NbTouchedAttributes() int {
	if len(d.buckets) == 0 {
		return 0
	}
	return d.buckets[len(d.buckets)-1].touched
}

// AbortPolicy returns the current abort policy.
func (d *Data) AbortPolicy() AbortPolicy {
	return d.abortPolicy
}

// SetAbortPolicy changes the abort policy. It applies to subsequent aborts.
func (d *Data) SetAbortPolicy(p AbortPolicy) {
	d.abortPolicy = p
}

// NbLabels returns the number of label nodes allocated, detached ones included.
func (d *Data) NbLabels() int {
	return d.nodes.Len()
}

// ArenaStats reports the label arena footprint.
func (d *Data) ArenaStats() arena.Stats {
	return d.nodes.Stats()
}

// IsReleased reports whether Release was called.
func (d *Data) IsReleased() bool {
	return d.released
}

// Release frees the whole label tree at once. Open transactions are dropped and every
// Label of this Data becomes unusable.
func (d *Data) Release() {
	if d.released {
		return
	}
	log.Debug("releasing label tree", "labels", d.nodes.Len(), "open transactions", d.transaction)
	d.nodes.Release()
	d.buckets = nil
	d.transaction = 0
	d.entries = nil
	d.released = true
}

// Walk visits every attached label in depth first, creation order, starting at the root.
// A non-nil error from fn stops the walk and is returned.
func (d *Data) Walk(fn func(Label) error) error {
	if err := d.live(); err != nil {
		return err
	}
	return d.walk(d.root, fn)
}

func (d *Data) walk(idx arena.Index, fn func(Label) error) error {
	n := d.node(idx)
	if err := fn(Label{data: d, idx: idx}); err != nil {
		return err
	}
	for c := n.firstChild; c != arena.Nil; c = d.node(c).nextSibling {
		if !d.node(c).attached {
			continue
		}
		if err := d.walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}

func (d *Data) recording() bool {
	return len(d.buckets) > 0 && d.suspended == 0 && !d.released
}
