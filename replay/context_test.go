package replay

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/simtrace/catalog"
	"github.com/arloliu/simtrace/encoding"
	"github.com/arloliu/simtrace/errs"
	"github.com/arloliu/simtrace/format"
)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.New(catalog.Rows{
		Elements: []catalog.ElementRow{
			{ID: 1, ParentID: 0, Name: "root"},
			{ID: 2, ParentID: 1, Name: "count"},
			{ID: 3, ParentID: 1, Name: "entry"},
			{ID: 4, ParentID: 1, Name: "queue"},
			{ID: 5, ParentID: 1, Name: "table"},
		},
		Collectables: []catalog.CollectableRow{
			{ID: 1, ElementID: 2, DataType: "uint32_t"},
			{ID: 2, ElementID: 3, DataType: "Entry", AutoCollected: true},
			{ID: 3, ElementID: 4, DataType: "Item_contig_capacity4", AutoCollected: true},
			{ID: 4, ElementID: 5, DataType: "Item_sparse_capacity4", AutoCollected: true},
		},
		StructFields: []catalog.StructFieldRow{
			{StructName: "Entry", FieldName: "a", FieldType: "uint64_t"},
			{StructName: "Entry", FieldName: "b", FieldType: "uint64_t"},
			{StructName: "Entry", FieldName: "c", FieldType: "uint32_t"},
			{StructName: "Item", FieldName: "v", FieldType: "uint64_t"},
		},
	})
	require.NoError(t, err)

	return cat
}

func TestNewContext(t *testing.T) {
	ctx, err := NewContext(newTestCatalog(t))
	require.NoError(t, err)

	tests := []struct {
		id   int64
		want any
	}{
		{2, &ValueReplayer{}},
		{3, &ValueReplayer{}},
		{4, &ContigReplayer{}},
		{5, &SparseReplayer{}},
	}
	for _, tt := range tests {
		r, ok := ctx.Replayer(tt.id)
		require.True(t, ok)
		require.IsType(t, tt.want, r)
	}

	_, ok := ctx.Replayer(1)
	require.False(t, ok)
	_, ok = ctx.Replayer(-1)
	require.False(t, ok)
}

func TestContext_Demux(t *testing.T) {
	ctx, err := NewContext(newTestCatalog(t))
	require.NoError(t, err)

	tick0 := encoding.NewWriter().
		WriteU16(2).WriteU32(7).
		WriteU16(3).WriteU8(byte(format.ValueWrite)).WriteBytes(fill(0xee, 20)).
		WriteU16(4).WriteBytes(full(item(1), item(2))).
		WriteU16(5).WriteBytes(sparseDump(map[uint16][]byte{2: item(9)}, []uint16{2})).
		Finish()
	tick1 := encoding.NewWriter().
		WriteU16(5).WriteBytes(sparseDump(nil, nil)).
		WriteU16(3).WriteU8(byte(format.ValueCarry)).
		WriteU16(4).WriteBytes(tagged(format.ContigDepart)).
		WriteU16(2).WriteU32(9).
		Finish()

	require.NoError(t, ctx.Demux(0, tick0))
	require.NoError(t, ctx.Demux(1, tick1))
	require.Equal(t, 8, ctx.Records())

	count, _ := ctx.Replayer(2)
	require.Equal(t, []byte{9, 0, 0, 0}, count.History()[1].Value)

	entry, _ := ctx.Replayer(3)
	require.Equal(t, entry.History()[0].Value, entry.History()[1].Value)

	queue, _ := ctx.Replayer(4)
	require.Equal(t, [][]byte{item(2)}, queue.History()[1].Items)

	table, _ := ctx.Replayer(5)
	require.Equal(t, 1, table.History()[0].Len())
	require.Equal(t, 0, table.History()[1].Len())

	ctx.Reset()
	require.Equal(t, 0, ctx.Records())
	require.Empty(t, queue.History())
}

func TestContext_DemuxErrors(t *testing.T) {
	tests := []struct {
		name   string
		record []byte
		err    error
	}{
		{"unknown collectable", encoding.NewWriter().WriteU16(99).WriteU32(1).Finish(), errs.ErrUnknownCollectable},
		{"dangling id byte", encoding.NewWriter().WriteU16(2).WriteU32(1).WriteU8(2).Finish(), errs.ErrTruncatedRecord},
		{"short payload", encoding.NewWriter().WriteU16(2).WriteU16(1).Finish(), errs.ErrTruncatedRecord},
		{"bad action tag", encoding.NewWriter().WriteU16(4).WriteU8(9).Finish(), errs.ErrInvalidActionTag},
		{"carry first", encoding.NewWriter().WriteU16(3).WriteU8(byte(format.ValueCarry)).Finish(), errs.ErrNoPriorValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := NewContext(newTestCatalog(t))
			require.NoError(t, err)
			require.ErrorIs(t, ctx.Demux(0, tt.record), tt.err)
		})
	}
}

func TestContext_EmptyRecord(t *testing.T) {
	ctx, err := NewContext(newTestCatalog(t))
	require.NoError(t, err)

	require.NoError(t, ctx.Demux(0, nil))
	require.Equal(t, 0, ctx.Records())
}

func TestFind(t *testing.T) {
	h := []Entry{{Tick: 2}, {Tick: 5}, {Tick: 9}}

	e, ok := Find(h, 5)
	require.True(t, ok)
	require.Equal(t, int64(5), e.Tick)

	_, ok = Find(h, 6)
	require.False(t, ok)
	_, ok = Find(h, 10)
	require.False(t, ok)
	_, ok = Find(nil, 0)
	require.False(t, ok)
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(&catalog.Collectable{Tag: catalog.TypeTag{DataType: "??"}})
	require.ErrorIs(t, err, errs.ErrInvalidDataType)
}

func TestContext_LookBack(t *testing.T) {
	// tick 0 carries values written before the replayed window.
	tick0 := encoding.NewWriter().
		WriteU16(3).WriteU8(byte(format.ValueCarry)).
		WriteU16(4).WriteBytes(tagged(format.ContigArrive, item(5)...)).
		WriteU16(2).WriteU32(1).
		Finish()
	tick1 := encoding.NewWriter().
		WriteU16(3).WriteU8(byte(format.ValueWrite)).WriteBytes(fill(0x11, 20)).
		WriteU16(4).WriteBytes(full(item(6))).
		Finish()
	tick2 := encoding.NewWriter().
		WriteU16(3).WriteU8(byte(format.ValueCarry)).
		WriteU16(4).WriteBytes(tagged(format.ContigCarry)).
		Finish()

	t.Run("strict", func(t *testing.T) {
		ctx, err := NewContext(newTestCatalog(t))
		require.NoError(t, err)
		require.ErrorIs(t, ctx.Demux(0, tick0), errs.ErrNoPriorValue)
	})

	t.Run("skips missing base before range", func(t *testing.T) {
		ctx, err := NewContext(newTestCatalog(t))
		require.NoError(t, err)
		ctx.SetLookBack(2)

		require.NoError(t, ctx.Demux(0, tick0))
		require.NoError(t, ctx.Demux(1, tick1))
		require.NoError(t, ctx.Demux(2, tick2))
		require.Equal(t, 2, ctx.Skipped())
		require.Equal(t, 7, ctx.Records())

		entry, _ := ctx.Replayer(3)
		h := entry.History()
		require.Len(t, h, 2)
		require.Equal(t, fill(0x11, 20), h[1].Value)

		count, _ := ctx.Replayer(2)
		require.Len(t, count.History(), 1, "updates after a skipped one still decode")
	})

	t.Run("strict from range start", func(t *testing.T) {
		ctx, err := NewContext(newTestCatalog(t))
		require.NoError(t, err)
		ctx.SetLookBack(0)
		require.ErrorIs(t, ctx.Demux(0, tick0), errs.ErrNoPriorValue)
	})
}
