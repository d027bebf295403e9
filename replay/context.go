package replay

import (
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/simtrace/catalog"
	"github.com/arloliu/simtrace/encoding"
	"github.com/arloliu/simtrace/errs"
)

// Context owns the replayers of a single query.
type Context struct {
	replayers map[uint16]Replayer
	auto      map[uint16]bool
	records   int
	skipped   int
	// Updates before lookBackUntil that have no base value are skipped
	// instead of failing.
	lookBackUntil int64
}

// NewContext creates a fresh replayer for every collectable in cat.
func NewContext(cat *catalog.Catalog) (*Context, error) {
	cols := cat.Collectables()
	ctx := &Context{
		replayers:     make(map[uint16]Replayer, len(cols)),
		auto:          make(map[uint16]bool, len(cols)),
		lookBackUntil: math.MinInt64,
	}

	for _, col := range cols {
		r, err := New(col)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", col.Path, err)
		}
		id := uint16(col.ElementID) //nolint:gosec
		ctx.replayers[id] = r
		ctx.auto[id] = col.AutoCollected
	}

	return ctx, nil
}

// Replayer returns the replayer of an element.
func (c *Context) Replayer(elementID int64) (Replayer, bool) {
	if elementID < 0 || elementID > int64(^uint16(0)) {
		return nil, false
	}
	r, ok := c.replayers[uint16(elementID)]

	return r, ok
}

// SetLookBack marks ticks before until as look-back ticks.
//
// Replay of a range has to start before the range so that every element sees a
// full value first. The first updates of that look-back window may be carries
// or deltas whose base lies even earlier; they are skipped rather than failing
// with errs.ErrNoPriorValue. From until on, a missing base is an error.
func (c *Context) SetLookBack(until int64) {
	c.lookBackUntil = until
}

// Records returns the number of updates demultiplexed so far.
func (c *Context) Records() int {
	return c.records
}

// Skipped returns the number of look-back updates skipped for lack of a base.
func (c *Context) Skipped() int {
	return c.skipped
}

// Demux replays every update in one tick record.
//
// The record is a sequence of [uint16 collectable id][payload] pairs with no
// other framing. Each payload is handed to its element's replayer, which
// reports how far to advance. The record must be consumed exactly.
func (c *Context) Demux(tick int64, record []byte) error {
	cur := encoding.NewCursor(record)
	for cur.Remaining() > 0 {
		offset := cur.Offset()
		id, err := cur.ReadU16()
		if err != nil {
			return fmt.Errorf("tick %d offset %d: %w", tick, offset, err)
		}

		r, ok := c.replayers[id]
		if !ok {
			return fmt.Errorf("%w: %d at tick %d offset %d", errs.ErrUnknownCollectable, id, tick, offset)
		}

		n, err := r.Replay(tick, cur.Rest(), c.auto[id])
		if err != nil {
			if tick >= c.lookBackUntil || !errors.Is(err, errs.ErrNoPriorValue) {
				return fmt.Errorf("element %d at tick %d offset %d: %w", id, tick, offset, err)
			}
			c.skipped++
		}
		if err := cur.Skip(n); err != nil {
			return fmt.Errorf("element %d at tick %d offset %d: %w", id, tick, offset, err)
		}
		c.records++
	}

	return nil
}

// Reset clears every replayer so the context can replay another range.
func (c *Context) Reset() {
	for _, r := range c.replayers {
		r.Reset()
	}
	c.records = 0
	c.skipped = 0
}
