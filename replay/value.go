package replay

import (
	"fmt"

	"github.com/arloliu/simtrace/encoding"
	"github.com/arloliu/simtrace/errs"
	"github.com/arloliu/simtrace/format"
)

// ValueReplayer replays scalar, enum and struct elements.
//
// Values narrower than format.ActionTagMinWidth, and values of elements that are
// not auto-collected, are always written directly. Wider auto-collected values
// are preceded by a format.ValueAction tag.
type ValueReplayer struct {
	width   int
	history []Entry
}

// NewValueReplayer creates a replayer for values of width bytes.
func NewValueReplayer(width int) *ValueReplayer {
	return &ValueReplayer{width: width}
}

// Width returns the encoded width of one value.
func (r *ValueReplayer) Width() int {
	return r.width
}

// Replay implements Replayer.
func (r *ValueReplayer) Replay(tick int64, data []byte, autoCollected bool) (int, error) {
	if r.width < format.ActionTagMinWidth || !autoCollected {
		if len(data) < r.width {
			return 0, truncated("value", r.width, len(data))
		}
		r.history = append(r.history, Entry{Tick: tick, Value: clone(data[:r.width])})

		return r.width, nil
	}

	c := encoding.NewCursor(data)
	tag, err := c.ReadU8()
	if err != nil {
		return 0, err
	}

	switch action := format.ValueAction(tag); action {
	case format.ValueWrite:
		payload, err := c.ReadBytes(r.width)
		if err != nil {
			return 0, err
		}
		r.history = append(r.history, Entry{Tick: tick, Value: clone(payload)})
	case format.ValueCarry:
		if len(r.history) == 0 {
			return c.Offset(), fmt.Errorf("%w: %s at tick %d", errs.ErrNoPriorValue, action, tick)
		}
		prev := r.history[len(r.history)-1]
		r.history = append(r.history, Entry{Tick: tick, Value: prev.Value})
	default:
		return 0, fmt.Errorf("%w: value tag %d at tick %d", errs.ErrInvalidActionTag, tag, tick)
	}

	return c.Offset(), nil
}

// History implements Replayer.
func (r *ValueReplayer) History() []Entry {
	return r.history
}

// Reset implements Replayer.
func (r *ValueReplayer) Reset() {
	r.history = nil
}
