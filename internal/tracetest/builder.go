// Package tracetest builds synthetic simtrace databases for tests, examples
// and tools.
package tracetest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arloliu/simtrace/catalog"
	"github.com/arloliu/simtrace/compress"
	"github.com/arloliu/simtrace/store"
)

// RootID is the element id of the synthetic root node.
const RootID = 1

// Field describes one struct field for Builder.Struct.
type Field struct {
	Name   string
	Type   string
	Format int
}

type record struct {
	tick       int64
	data       []byte
	compressed bool
}

// Builder accumulates the metadata and records of a trace.
type Builder struct {
	rows      catalog.Rows
	ids       map[string]int64
	nextID    int64
	heartbeat int
	records   []record
	codec     compress.Codec
}

// New creates a builder holding only the root node and a default clock.
func New() *Builder {
	b := &Builder{
		ids:       map[string]int64{"": RootID},
		nextID:    RootID + 1,
		heartbeat: store.DefaultHeartbeat,
		codec:     compress.NewZlibCompressor(),
	}
	b.rows.Elements = append(b.rows.Elements, catalog.ElementRow{ID: RootID, Name: "root"})
	b.rows.Clocks = append(b.rows.Clocks, catalog.ClockRow{ID: 1, Name: "root", Period: 1})

	return b
}

// Element returns the id of the element at path, creating it and any missing
// ancestors.
func (b *Builder) Element(path string) int64 {
	if id, ok := b.ids[path]; ok {
		return id
	}

	parent := int64(RootID)
	name := path
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		parent = b.Element(path[:i])
		name = path[i+1:]
	}

	id := b.nextID
	b.nextID++
	b.ids[path] = id
	b.rows.Elements = append(b.rows.Elements, catalog.ElementRow{ID: id, ParentID: parent, Name: name})

	return id
}

// Collect marks the element at path as collected with the given data type and
// returns its element id, the id that prefixes its updates in tick records.
// CollectableTreeNodes ids are numbered separately from 1.
func (b *Builder) Collect(path, dataType string, autoCollected bool) uint16 {
	id := b.Element(path)
	b.rows.Collectables = append(b.rows.Collectables, catalog.CollectableRow{
		ID:            int64(len(b.rows.Collectables) + 1),
		ElementID:     id,
		ClockID:       1,
		DataType:      dataType,
		AutoCollected: autoCollected,
	})

	return uint16(id) //nolint:gosec
}

// Struct declares a struct layout.
func (b *Builder) Struct(name string, fields ...Field) *Builder {
	for _, f := range fields {
		b.rows.StructFields = append(b.rows.StructFields, catalog.StructFieldRow{
			StructName:         name,
			FieldName:          f.Name,
			FieldType:          f.Type,
			FormatCode:         f.Format,
			DisplayedByDefault: true,
		})
	}

	return b
}

// EnumValue declares one enumerator; value holds little-endian bytes of intType.
func (b *Builder) EnumValue(enum, intType, name string, value []byte) *Builder {
	b.rows.Enums = append(b.rows.Enums, catalog.EnumRow{EnumName: enum, Name: name, Value: value, IntType: intType})
	return b
}

// String interns s under id.
func (b *Builder) String(id uint32, s string) *Builder {
	b.rows.Strings = append(b.rows.Strings, catalog.StringRow{ID: id, String: s})
	return b
}

// Heartbeat sets the trace heartbeat.
func (b *Builder) Heartbeat(n int) *Builder {
	b.heartbeat = n
	return b
}

// QueueMaxSize records a container high-water mark for the element at path.
func (b *Builder) QueueMaxSize(path string, n int) *Builder {
	b.rows.QueueMaxSizes = append(b.rows.QueueMaxSizes, catalog.QueueMaxSizeRow{ElementID: b.Element(path), MaxSize: n})
	return b
}

// Record adds an uncompressed tick record.
func (b *Builder) Record(tick int64, data []byte) *Builder {
	b.records = append(b.records, record{tick: tick, data: data})
	return b
}

// CompressedRecord adds a zlib compressed tick record.
func (b *Builder) CompressedRecord(tick int64, data []byte) *Builder {
	out, err := b.codec.Compress(data)
	if err != nil {
		panic(err)
	}
	b.records = append(b.records, record{tick: tick, data: out, compressed: true})

	return b
}

// RawRecord adds a record whose data is stored as given.
func (b *Builder) RawRecord(tick int64, data []byte, compressed bool) *Builder {
	b.records = append(b.records, record{tick: tick, data: data, compressed: compressed})
	return b
}

// Rows returns the accumulated metadata.
func (b *Builder) Rows() catalog.Rows {
	return b.rows
}

// WriteTo writes the trace to a new database at path.
func (b *Builder) WriteTo(ctx context.Context, path string) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	return st.WithTx(ctx, func(tx *store.Tx) error {
		for _, e := range b.rows.Elements {
			if err := tx.InsertElement(e); err != nil {
				return err
			}
		}
		for _, c := range b.rows.Clocks {
			if err := tx.InsertClock(c); err != nil {
				return err
			}
		}
		for _, c := range b.rows.Collectables {
			if err := tx.InsertCollectable(c); err != nil {
				return err
			}
		}
		for _, f := range b.rows.StructFields {
			if err := tx.InsertStructField(f); err != nil {
				return err
			}
		}
		for _, e := range b.rows.Enums {
			if err := tx.InsertEnumValue(e); err != nil {
				return err
			}
		}
		for _, s := range b.rows.Strings {
			if err := tx.InsertString(s); err != nil {
				return err
			}
		}
		for _, q := range b.rows.QueueMaxSizes {
			if err := tx.InsertQueueMaxSize(q); err != nil {
				return err
			}
		}
		if err := tx.SetGlobals(b.heartbeat, "uint64_t"); err != nil {
			return err
		}
		for _, r := range b.records {
			if err := tx.InsertRecord(r.tick, r.data, r.compressed); err != nil {
				return err
			}
		}

		return nil
	})
}

// Write writes the trace into a temporary directory owned by tb and returns
// the database path.
func (b *Builder) Write(tb testing.TB) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "trace.db")
	if err := b.WriteTo(context.Background(), path); err != nil {
		tb.Fatalf("write trace: %v", err)
	}

	return path
}
