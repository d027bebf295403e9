package simtrace

import (
	"context"
	"fmt"
	"sort"

	"github.com/arloliu/simtrace/replay"
)

// IterableSizesAt returns how many items every container element held at
// tick, keyed by path. Containers without a record at tick are omitted.
//
// The result is memoized for the most recently requested tick; asking for a
// different tick discards it. The returned map must not be modified.
func (e *Engine) IterableSizesAt(ctx context.Context, tick int64) (map[string]int, error) {
	e.sizesMu.Lock()
	defer e.sizesMu.Unlock()

	if e.sizesValid && e.sizesTick == tick {
		return e.sizes, nil
	}
	e.sizesValid = false

	ticks, err := e.AllTicks(ctx)
	if err != nil {
		return nil, err
	}

	sizes := make(map[string]int)
	idx := sort.Search(len(ticks), func(i int) bool { return ticks[i] >= tick })
	if idx < len(ticks) && ticks[idx] == tick {
		rc, err := replay.NewContext(e.cat)
		if err != nil {
			return nil, err
		}
		rc.SetLookBack(tick)
		scanFrom, _ := e.scanStart(ticks, tick)
		if _, err := e.replayRange(ctx, rc, scanFrom, tick); err != nil {
			return nil, fmt.Errorf("container sizes at tick %d: %w", tick, err)
		}

		for _, col := range e.cat.Collectables() {
			if !col.Tag.IsContainer() {
				continue
			}
			r, _ := rc.Replayer(col.ElementID)
			if entry, ok := replay.Find(r.History(), tick); ok {
				sizes[col.Path] = entry.Len()
			}
		}
	}

	e.sizes = sizes
	e.sizesTick = tick
	e.sizesValid = true

	return sizes, nil
}
