package tdf

import (
	"fmt"
	log "log/slog"

	"github.com/sharedcode/ocaf"
)

// OpenTransaction opens a (possibly nested) transaction and returns the new transaction level.
// On a released Data it does nothing and returns 0.
func (d *Data) OpenTransaction() int {
	if d.released {
		return 0
	}
	d.buckets = append(d.buckets, newBucket(d.time))
	d.transaction++
	log.Debug("transaction opened", "level", d.transaction, "time", d.time)
	return d.transaction
}

// CommitTransaction commits the innermost transaction. Its changes are folded into the
// enclosing transaction, if any, and Time advances by one. With withDelta, the committed
// changes are returned as a Delta that Undo can revert; otherwise the Delta is nil.
func (d *Data) CommitTransaction(withDelta bool) (*Delta, error) {
	if err := d.live(); err != nil {
		return nil, err
	}
	if d.transaction == 0 {
		return nil, newError(ocaf.NoOpenTransaction, ErrNoTransaction, "commit")
	}
	b := d.pop()
	d.time++

	var delta *Delta
	if withDelta {
		delta = &Delta{data: d, beginTime: b.beginTime, endTime: d.time}
		if b.touched > 0 {
			delta.entries = fixOrder(b.entries)
		}
	}
	if len(d.buckets) > 0 {
		d.buckets[len(d.buckets)-1].absorb(b)
	}
	log.Debug("transaction committed", "level", d.transaction+1, "time", d.time, "touched", b.touched)
	return delta, nil
}

// CommitUntilTransaction commits every transaction down to and including level, returning
// one Delta holding all of their changes when withDelta is set.
func (d *Data) CommitUntilTransaction(level int, withDelta bool) (*Delta, error) {
	if err := d.live(); err != nil {
		return nil, err
	}
	if level < 1 || level > d.transaction {
		return nil, newError(ocaf.NoOpenTransaction, fmt.Errorf("%w: level %d, open %d", ErrNoTransaction, level, d.transaction), "commit until")
	}
	for d.transaction > level {
		if _, err := d.CommitTransaction(false); err != nil {
			return nil, err
		}
	}
	return d.CommitTransaction(withDelta)
}

// AbortTransaction aborts the innermost transaction according to the abort policy. Time
// does not change.
func (d *Data) AbortTransaction() error {
	if err := d.live(); err != nil {
		return err
	}
	if d.transaction == 0 {
		return newError(ocaf.NoOpenTransaction, ErrNoTransaction, "abort")
	}
	b := d.pop()
	if d.abortPolicy == AbortRollback && b.touched > 0 {
		d.suspended++
		d.revertAll(fixOrder(b.entries))
		d.suspended--
	}
	log.Debug("transaction aborted", "level", d.transaction+1, "policy", d.abortPolicy, "touched", b.touched)
	return nil
}

// AbortUntilTransaction aborts every transaction down to and including level.
func (d *Data) AbortUntilTransaction(level int) error {
	if err := d.live(); err != nil {
		return err
	}
	if level < 1 || level > d.transaction {
		return newError(ocaf.NoOpenTransaction, fmt.Errorf("%w: level %d, open %d", ErrNoTransaction, level, d.transaction), "abort until")
	}
	for d.transaction >= level {
		if err := d.AbortTransaction(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Data) pop() *bucket {
	b := d.buckets[len(d.buckets)-1]
	d.buckets = d.buckets[:len(d.buckets)-1]
	d.transaction--
	return b
}
