package replay

import (
	"fmt"

	"github.com/arloliu/simtrace/encoding"
	"github.com/arloliu/simtrace/errs"
)

// SparseReplayer replays a sparse (position-addressed) container.
//
// Every update is a complete columnar dump without an action tag:
//
//	uint16         valid count k
//	k × uint16     bucket indices
//	k × width      item payloads, in index order
type SparseReplayer struct {
	width    int
	capacity int
	history  []Entry
}

// NewSparseReplayer creates a replayer for a sparse container of items of
// width bytes.
func NewSparseReplayer(width, capacity int) *SparseReplayer {
	return &SparseReplayer{width: width, capacity: capacity}
}

// Replay implements Replayer.
func (r *SparseReplayer) Replay(tick int64, data []byte, _ bool) (int, error) {
	c := encoding.NewCursor(data)
	count, err := c.ReadU16()
	if err != nil {
		return 0, err
	}

	k := int(count)
	if need := 2*k + k*r.width; c.Remaining() < need {
		return 0, truncated("sparse container", 2+need, len(data))
	}

	indices := make([]int, k)
	for i := range indices {
		idx, _ := c.ReadU16()
		if int(idx) >= r.capacity {
			return 0, fmt.Errorf("%w: bucket %d of capacity %d at tick %d",
				errs.ErrInvalidContainerOp, idx, r.capacity, tick)
		}
		indices[i] = int(idx)
	}

	slots := make([][]byte, r.capacity)
	for _, idx := range indices {
		if slots[idx] != nil {
			return 0, fmt.Errorf("%w: bucket %d dumped twice at tick %d", errs.ErrInvalidContainerOp, idx, tick)
		}
		b, _ := c.ReadBytes(r.width)
		slots[idx] = clone(b)
	}
	r.history = append(r.history, Entry{Tick: tick, Items: slots})

	return c.Offset(), nil
}

// History implements Replayer.
func (r *SparseReplayer) History() []Entry {
	return r.history
}

// Reset implements Replayer.
func (r *SparseReplayer) Reset() {
	r.history = nil
}
