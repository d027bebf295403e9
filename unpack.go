package simtrace

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/simtrace/catalog"
	"github.com/arloliu/simtrace/encoding"
	"github.com/arloliu/simtrace/internal/options"
	"github.com/arloliu/simtrace/replay"
)

// Unpack reconstructs the value history of the element at path.
//
// The returned ticks are every logged tick in rng, ascending. Replay starts up
// to Heartbeat() ticks before rng.From so that carried and delta-encoded
// values have a base; those extra ticks are not part of the result. A nil rng
// selects the whole trace.
//
// Any malformed record aborts the call; no partial result is returned.
//
// Returns:
//   - *Result: parallel ticks and values, see Result
//   - error: wrapping errs.ErrUnknownPath, errs.ErrUnknownCollectable, or any
//     decoding error (errs.ErrTruncatedRecord, errs.ErrInvalidActionTag,
//     errs.ErrNoPriorValue, errs.ErrDecompression, errs.ErrUnknownEnumValue, ...)
func (e *Engine) Unpack(ctx context.Context, path string, rng *TickRange, opts ...UnpackOption) (*Result, error) {
	cfg := &unpackConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	col, err := e.cat.CollectableByPath(path)
	if err != nil {
		return nil, err
	}

	ticks, err := e.AllTicks(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{Path: path, Ticks: []int64{}, Values: []any{}}
	from, to := rng.bounds()
	scanFrom, ok := e.scanStart(ticks, from)
	if !ok {
		return res, nil
	}

	rc, err := replay.NewContext(e.cat)
	if err != nil {
		return nil, err
	}
	if from >= 0 {
		rc.SetLookBack(from)
	}

	records, err := e.replayRange(ctx, rc, scanFrom, to)
	if err != nil {
		return nil, fmt.Errorf("unpack %q: %w", path, err)
	}

	e.logger.WithFields(logrus.Fields{
		"path":      path,
		"range":     rng.String(),
		"scan_from": scanFrom,
		"records":   records,
		"updates":   rc.Records(),
		"skipped":   rc.Skipped(),
	}).Debug("replayed trace range")

	r, _ := rc.Replayer(col.ElementID)
	history := r.History()
	dec, err := e.newValueDecoder(col, cfg.visible)
	if err != nil {
		return nil, err
	}

	for _, tick := range ticks {
		if !rng.Contains(tick) {
			continue
		}

		var value any
		if entry, ok := replay.Find(history, tick); ok {
			value, err = dec(entry)
			if err != nil {
				return nil, fmt.Errorf("unpack %q at tick %d: %w", path, tick, err)
			}
		}
		res.Ticks = append(res.Ticks, tick)
		res.Values = append(res.Values, value)
	}

	return res, nil
}

type valueDecoder func(replay.Entry) (any, error)

// newValueDecoder returns the decoder turning a history entry of col into its
// Result value.
func (e *Engine) newValueDecoder(col *catalog.Collectable, visible encoding.FieldFilter) (valueDecoder, error) {
	switch col.Tag.Kind {
	case catalog.KindScalar:
		sd, err := encoding.NewScalarDecoder(col.Tag.Primitive, e.cat.Strings())
		if err != nil {
			return nil, err
		}

		return func(entry replay.Entry) (any, error) { return sd.Decode(entry.Value) }, nil
	case catalog.KindEnum:
		table, err := e.cat.EnumTable(col.Tag.Name)
		if err != nil {
			return nil, err
		}
		sd := encoding.NewEnumDecoder(table)

		return func(entry replay.Entry) (any, error) { return sd.Decode(entry.Value) }, nil
	}

	layout, err := e.cat.StructLayout(col.Tag.Name)
	if err != nil {
		return nil, err
	}
	sd, err := encoding.NewStructDecoder(layout)
	if err != nil {
		return nil, err
	}

	if col.Tag.Kind == catalog.KindStruct {
		return func(entry replay.Entry) (any, error) { return sd.Decode(entry.Value, visible) }, nil
	}

	return func(entry replay.Entry) (any, error) {
		items := make([]encoding.Record, len(entry.Items))
		for i, it := range entry.Items {
			if it == nil {
				continue
			}
			rec, err := sd.Decode(it, visible)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			items[i] = rec
		}

		return items, nil
	}, nil
}
