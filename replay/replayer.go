package replay

import (
	"fmt"
	"sort"

	"github.com/arloliu/simtrace/catalog"
	"github.com/arloliu/simtrace/errs"
)

// Entry is the reconstructed state of one element at one tick.
//
// Payload buffers are owned by the replayer and never modified after they are
// recorded, so entries may share them.
type Entry struct {
	Tick int64
	// Value is the raw payload of a scalar, enum or struct element.
	Value []byte
	// Items holds the raw elements of a container: the queue in order for a
	// contiguous container, or one slot per bucket for a sparse container with
	// nil marking an empty bucket.
	Items [][]byte
}

// Len returns the number of non-empty container items.
func (e Entry) Len() int {
	n := 0
	for _, it := range e.Items {
		if it != nil {
			n++
		}
	}

	return n
}

// Replayer consumes one element's updates tick by tick.
type Replayer interface {
	// Replay decodes one update at the start of data and records the
	// resulting state at tick.
	//
	// Parameters:
	//   - tick: tick of the record being replayed, ascending across calls
	//   - data: the rest of the tick record starting at this element's payload
	//   - autoCollected: whether the element uses the action tag scheme
	//
	// Returns:
	//   - int: number of bytes of data consumed by this update
	//   - error: errs.ErrTruncatedRecord, errs.ErrInvalidActionTag,
	//     errs.ErrNoPriorValue or errs.ErrInvalidContainerOp
	//
	// On errs.ErrNoPriorValue nothing is recorded, but the returned byte count
	// is still exact so the caller may skip the update.
	Replay(tick int64, data []byte, autoCollected bool) (int, error)

	// History returns all recorded entries in tick order.
	History() []Entry

	// Reset discards all state.
	Reset()
}

// New creates the replayer matching a collectable's type tag.
func New(col *catalog.Collectable) (Replayer, error) {
	switch col.Tag.Kind {
	case catalog.KindScalar, catalog.KindEnum, catalog.KindStruct:
		return NewValueReplayer(col.Width), nil
	case catalog.KindContiguous:
		return NewContigReplayer(col.Width, col.Tag.Capacity), nil
	case catalog.KindSparse:
		return NewSparseReplayer(col.Width, col.Tag.Capacity), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidDataType, col.Tag.DataType)
	}
}

// Find returns the entry recorded at exactly tick.
func Find(history []Entry, tick int64) (Entry, bool) {
	i := sort.Search(len(history), func(i int) bool { return history[i].Tick >= tick })
	if i < len(history) && history[i].Tick == tick {
		return history[i], true
	}

	return Entry{}, false
}

func truncated(what string, need, have int) error {
	return fmt.Errorf("%w: %s needs %d bytes, have %d", errs.ErrTruncatedRecord, what, need, have)
}

// clone copies b into a buffer owned by the replayer.
func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)

	return out
}
