// Package simtrace replays simulation traces.
//
// A simulator logs, once per tick, the values of the elements it tracks:
// scalars, structs and fixed-capacity containers. To keep traces small the log
// is delta encoded (unchanged values are carried, queues record arrivals and
// departures) and every element's updates for a tick are multiplexed into one
// optionally compressed blob. An Engine reverses this: given an element path
// and a tick range it reconstructs the element's exact value at every tick.
//
// # Basic Usage
//
//	engine, err := simtrace.Open(ctx, "run.db")
//	if err != nil {
//	    return err
//	}
//	defer engine.Close()
//
//	res, err := engine.Unpack(ctx, "top.core0.rob", simtrace.Range(1000, 1100))
//	if err != nil {
//	    return err
//	}
//	for tick, value := range res.All() {
//	    fmt.Println(tick, value)
//	}
//
// # Look-back
//
// Updates are deltas, so replay has to start before the requested range. The
// simulator writes a full value for every auto-collected element at least once
// per heartbeat, measured in distinct logged ticks; Unpack therefore starts
// replaying heartbeat ticks before the first requested tick and discards the
// extra entries afterwards.
//
// # Concurrency
//
// An Engine is safe for concurrent use. Every Unpack call replays with its own
// set of replayers; only the metadata catalog is shared.
package simtrace

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/simtrace/catalog"
	"github.com/arloliu/simtrace/compress"
	"github.com/arloliu/simtrace/encoding"
	"github.com/arloliu/simtrace/errs"
	"github.com/arloliu/simtrace/format"
	"github.com/arloliu/simtrace/internal/options"
	"github.com/arloliu/simtrace/internal/pool"
	"github.com/arloliu/simtrace/replay"
	"github.com/arloliu/simtrace/store"
)

// Store is the trace storage an Engine reads from. *store.Store implements it.
type Store interface {
	LoadCatalogRows(ctx context.Context) (catalog.Rows, error)
	Heartbeat(ctx context.Context) (int, error)
	Ticks(ctx context.Context) ([]int64, error)
	ScanRecords(ctx context.Context, from, to int64, fn func(store.Record) error) error
	Close() error
}

// Engine answers queries against one trace.
type Engine struct {
	st          Store
	cat         *catalog.Catalog
	heartbeat   int
	compression format.CompressionType
	codec       compress.Codec
	logger      logrus.FieldLogger

	ticksMu sync.Mutex
	ticks   []int64

	sizesMu    sync.Mutex
	sizesTick  int64
	sizesValid bool
	sizes      map[string]int
}

// Open opens the trace at path read-only and loads its metadata.
func Open(ctx context.Context, path string, opts ...EngineOption) (*Engine, error) {
	st, err := store.OpenReadOnly(path)
	if err != nil {
		return nil, err
	}

	e, err := New(ctx, st, opts...)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return e, nil
}

// New creates an engine over an open store. The engine takes ownership of st
// and closes it in Close.
//
// The catalog is loaded once here; the heartbeat is read from the trace unless
// WithHeartbeat is given.
func New(ctx context.Context, st Store, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		st:        st,
		heartbeat: -1,
		logger:    logrus.StandardLogger(),
	}
	if err := options.Apply(e, append([]EngineOption{WithCompression(format.CompressionZlib)}, opts...)...); err != nil {
		return nil, err
	}

	rows, err := st.LoadCatalogRows(ctx)
	if err != nil {
		return nil, err
	}
	e.cat, err = catalog.New(rows)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if e.heartbeat < 0 {
		e.heartbeat, err = st.Heartbeat(ctx)
		if err != nil {
			return nil, err
		}
	}

	e.logger.WithFields(logrus.Fields{
		"elements":     len(rows.Elements),
		"collectables": len(rows.Collectables),
		"heartbeat":    e.heartbeat,
		"compression":  e.compression,
	}).Debug("trace catalog loaded")

	if ids := e.cat.UntrackedQueueMaxSizes(); len(ids) > 0 {
		e.logger.WithField("elements", ids).Warn("queue max sizes recorded for elements that are not containers")
	}

	return e, nil
}

// Close closes the underlying store.
func (e *Engine) Close() error {
	return e.st.Close()
}

// Catalog returns the trace metadata.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Heartbeat returns the look-back distance in distinct ticks.
func (e *Engine) Heartbeat() int {
	return e.heartbeat
}

// Resolve returns the element id of path.
func (e *Engine) Resolve(path string) (int64, error) {
	return e.cat.Resolve(path)
}

// AllTicks returns every distinct logged tick in ascending order. The list is
// read once and shared; callers must not modify it.
func (e *Engine) AllTicks(ctx context.Context) ([]int64, error) {
	e.ticksMu.Lock()
	defer e.ticksMu.Unlock()

	if e.ticks != nil {
		return e.ticks, nil
	}

	ticks, err := e.st.Ticks(ctx)
	if err != nil {
		return nil, err
	}
	if ticks == nil {
		ticks = []int64{}
	}
	e.ticks = ticks

	return ticks, nil
}

// StructLayout returns the struct layout of a struct or container element.
func (e *Engine) StructLayout(path string) (*encoding.StructLayout, error) {
	col, err := e.cat.CollectableByPath(path)
	if err != nil {
		return nil, err
	}
	if col.Tag.Kind != catalog.KindStruct && !col.Tag.IsContainer() {
		return nil, fmt.Errorf("%w: %q is %s", errs.ErrUnknownStruct, path, col.Tag)
	}

	return e.cat.StructLayout(col.Tag.Name)
}

// QueueMaxSize returns the high-water mark recorded for a container element,
// or 0 if none was recorded.
func (e *Engine) QueueMaxSize(path string) (int, error) {
	col, err := e.cat.CollectableByPath(path)
	if err != nil {
		return 0, err
	}
	if !col.Tag.IsContainer() {
		return 0, fmt.Errorf("%w: %q", errs.ErrNotContainer, path)
	}
	n, _ := e.cat.QueueMaxSize(col.ElementID)

	return n, nil
}

// scanStart returns the first tick to replay so that a query starting at from
// sees a full value for every element, and whether any tick >= from exists.
func (e *Engine) scanStart(ticks []int64, from int64) (int64, bool) {
	if from < 0 {
		return -1, true
	}

	idx := sort.Search(len(ticks), func(i int) bool { return ticks[i] >= from })
	if idx == len(ticks) {
		return 0, false
	}

	return ticks[max(idx-e.heartbeat, 0)], true
}

// replayRange demultiplexes every record in [from, to] into rc.
func (e *Engine) replayRange(ctx context.Context, rc *replay.Context, from, to int64) (int, error) {
	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)

	records := 0
	err := e.st.ScanRecords(ctx, from, to, func(rec store.Record) error {
		data := rec.Data
		if rec.IsCompressed {
			var err error
			data, err = e.inflate(buf, rec.Data)
			if err != nil {
				return fmt.Errorf("tick %d: %w", rec.Tick, err)
			}
		}
		records++

		return rc.Demux(rec.Tick, data)
	})

	return records, err
}

func (e *Engine) inflate(buf *pool.ByteBuffer, data []byte) ([]byte, error) {
	if d, ok := e.codec.(compress.AppendDecompressor); ok {
		out, err := d.DecompressAppend(buf.B[:0], data)
		if err != nil {
			return nil, err
		}
		buf.Set(out)

		return out, nil
	}

	return e.codec.Decompress(data)
}
