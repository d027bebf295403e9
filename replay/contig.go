package replay

import (
	"fmt"

	"github.com/arloliu/simtrace/encoding"
	"github.com/arloliu/simtrace/errs"
	"github.com/arloliu/simtrace/format"
)

// ContigReplayer replays a contiguous (FIFO-like) container from
// format.ContigAction deltas.
//
// Each update is applied to the current list and a copy of the list is recorded.
// Item buffers are never mutated once read, so recorded lists share the
// buffers of items that survive from one tick to the next.
type ContigReplayer struct {
	width    int
	capacity int
	list     [][]byte
	primed   bool
	history  []Entry
}

// NewContigReplayer creates a replayer for a contiguous container of items of
// width bytes.
func NewContigReplayer(width, capacity int) *ContigReplayer {
	return &ContigReplayer{width: width, capacity: capacity}
}

// Replay implements Replayer. Contiguous updates always carry an action tag.
func (r *ContigReplayer) Replay(tick int64, data []byte, _ bool) (int, error) {
	c := encoding.NewCursor(data)
	tag, err := c.ReadU8()
	if err != nil {
		return 0, err
	}

	action := format.ContigAction(tag)
	if action > format.ContigFull {
		return 0, fmt.Errorf("%w: container tag %d at tick %d", errs.ErrInvalidActionTag, tag, tick)
	}
	if action != format.ContigFull && !r.primed {
		if err := c.Skip(r.payloadSize(action)); err != nil {
			return 0, err
		}

		return c.Offset(), fmt.Errorf("%w: %s at tick %d", errs.ErrNoPriorValue, action, tick)
	}

	switch action {
	case format.ContigFull:
		count, err := c.ReadU16()
		if err != nil {
			return 0, err
		}
		list := make([][]byte, 0, max(int(count), r.capacity))
		for i := 0; i < int(count); i++ {
			item, err := r.readItem(c)
			if err != nil {
				return 0, err
			}
			list = append(list, item)
		}
		r.list = list
		r.primed = true
	case format.ContigArrive:
		item, err := r.readItem(c)
		if err != nil {
			return 0, err
		}
		r.list = append(r.list, item)
	case format.ContigDepart:
		if len(r.list) == 0 {
			return 0, fmt.Errorf("%w: %s on empty container at tick %d", errs.ErrInvalidContainerOp, action, tick)
		}
		r.list = r.list[1:]
	case format.ContigBookends:
		if len(r.list) == 0 {
			return 0, fmt.Errorf("%w: %s on empty container at tick %d", errs.ErrInvalidContainerOp, action, tick)
		}
		item, err := r.readItem(c)
		if err != nil {
			return 0, err
		}
		r.list = append(r.list[1:], item)
	case format.ContigChange:
		idx, err := c.ReadU16()
		if err != nil {
			return 0, err
		}
		item, err := r.readItem(c)
		if err != nil {
			return 0, err
		}
		if int(idx) >= len(r.list) {
			return 0, fmt.Errorf("%w: %s index %d of %d at tick %d",
				errs.ErrInvalidContainerOp, action, idx, len(r.list), tick)
		}
		r.list[idx] = item
	case format.ContigCarry:
	}

	r.history = append(r.history, Entry{Tick: tick, Items: append([][]byte{}, r.list...)})

	return c.Offset(), nil
}

// payloadSize returns the payload length following the tag of a delta action.
func (r *ContigReplayer) payloadSize(action format.ContigAction) int {
	switch action {
	case format.ContigArrive, format.ContigBookends:
		return r.width
	case format.ContigChange:
		return 2 + r.width
	default:
		return 0
	}
}

func (r *ContigReplayer) readItem(c *encoding.Cursor) ([]byte, error) {
	b, err := c.ReadBytes(r.width)
	if err != nil {
		return nil, err
	}

	return clone(b), nil
}

// History implements Replayer.
func (r *ContigReplayer) History() []Entry {
	return r.history
}

// Reset implements Replayer.
func (r *ContigReplayer) Reset() {
	r.list = nil
	r.primed = false
	r.history = nil
}
