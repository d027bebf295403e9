package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/simtrace/errs"
	"github.com/arloliu/simtrace/format"
)

// testRows describes a small core:
//
//	root(1)
//	└── top(2)
//	    ├── core0(3)
//	    │   ├── retired(4)    uint64_t
//	    │   ├── stage(5)      Stage
//	    │   ├── head(6)       Inst
//	    │   ├── rob(7)        Inst_contig_capacity8
//	    │   └── lsq(8)        Inst_sparse_capacity4
//	    └── idle(9)           (not collected)
func testRows() Rows {
	return Rows{
		Elements: []ElementRow{
			{ID: 1, ParentID: 0, Name: "root"},
			{ID: 2, ParentID: 1, Name: "top"},
			{ID: 3, ParentID: 2, Name: "core0"},
			{ID: 4, ParentID: 3, Name: "retired"},
			{ID: 5, ParentID: 3, Name: "stage"},
			{ID: 6, ParentID: 3, Name: "head"},
			{ID: 7, ParentID: 3, Name: "rob"},
			{ID: 8, ParentID: 3, Name: "lsq"},
			{ID: 9, ParentID: 2, Name: "idle"},
		},
		Collectables: []CollectableRow{
			{ID: 100, ElementID: 4, ClockID: 1, DataType: "uint64_t"},
			{ID: 101, ElementID: 5, ClockID: 1, DataType: "Stage"},
			{ID: 102, ElementID: 6, ClockID: 1, DataType: "Inst", AutoCollected: true},
			{ID: 103, ElementID: 7, ClockID: 1, DataType: "Inst_contig_capacity8", AutoCollected: true},
			{ID: 104, ElementID: 8, ClockID: 1, DataType: "Inst_sparse_capacity4", AutoCollected: true},
		},
		StructFields: []StructFieldRow{
			{StructName: "Inst", FieldName: "uid", FieldType: "uint64_t", FormatCode: 1, DisplayedByDefault: true},
			{StructName: "Inst", FieldName: "stage", FieldType: "Stage", DisplayedByDefault: true, AutoColorizeKey: true},
			{StructName: "Inst", FieldName: "op", FieldType: "string_t"},
		},
		Enums: []EnumRow{
			{EnumName: "Stage", Name: "FETCH", Value: []byte{0, 0, 0, 0}, IntType: "int32_t"},
			{EnumName: "Stage", Name: "RETIRE", Value: []byte{1, 0, 0, 0}, IntType: "int32_t"},
		},
		Strings: []StringRow{{ID: 0, String: "nop"}, {ID: 1, String: "add"}},
		Clocks:  []ClockRow{{ID: 1, Name: "core", Period: 1000}},
		QueueMaxSizes: []QueueMaxSizeRow{
			{ElementID: 7, MaxSize: 6},
		},
	}
}

func TestNew(t *testing.T) {
	cat, err := New(testRows())
	require.NoError(t, err)

	require.Equal(t, "root", cat.Root().Name)
	require.Equal(t, []int64{3, 9}, cat.Children(2))

	node, ok := cat.Node(7)
	require.True(t, ok)
	require.Equal(t, "rob", node.Name)

	path, ok := cat.Path(7)
	require.True(t, ok)
	require.Equal(t, "top.core0.rob", path)

	_, ok = cat.Path(1)
	require.False(t, ok, "root is not part of any path")

	clk, ok := cat.Clock(1)
	require.True(t, ok)
	require.Equal(t, int64(1000), clk.Period)
}

func TestCatalog_Resolve(t *testing.T) {
	cat, err := New(testRows())
	require.NoError(t, err)

	id, err := cat.Resolve("top.core0.retired")
	require.NoError(t, err)
	require.Equal(t, int64(4), id)

	id, err = cat.Resolve("top.idle")
	require.NoError(t, err)
	require.Equal(t, int64(9), id)
	require.False(t, cat.Tracked(id))

	_, err = cat.Resolve("top.core1")
	require.ErrorIs(t, err, errs.ErrUnknownPath)

	_, err = cat.Resolve("root.top")
	require.ErrorIs(t, err, errs.ErrUnknownPath)

	_, err = cat.CollectableByPath("top.idle")
	require.ErrorIs(t, err, errs.ErrUnknownCollectable)
}

func TestCatalog_TypeTags(t *testing.T) {
	cat, err := New(testRows())
	require.NoError(t, err)

	tests := []struct {
		path  string
		kind  Kind
		name  string
		cap   int
		width int
	}{
		{"top.core0.retired", KindScalar, "", 0, 8},
		{"top.core0.stage", KindEnum, "Stage", 0, 4},
		{"top.core0.head", KindStruct, "Inst", 0, 16},
		{"top.core0.rob", KindContiguous, "Inst", 8, 16},
		{"top.core0.lsq", KindSparse, "Inst", 4, 16},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			col, err := cat.CollectableByPath(tt.path)
			require.NoError(t, err)
			require.Equal(t, tt.kind, col.Tag.Kind)
			require.Equal(t, tt.name, col.Tag.Name)
			require.Equal(t, tt.cap, col.Tag.Capacity)
			require.Equal(t, tt.width, col.Width)

			tag, err := cat.TypeTag(col.ElementID)
			require.NoError(t, err)
			require.Equal(t, col.Tag, tag)

			width, err := cat.ElementWidth(col.ElementID)
			require.NoError(t, err)
			require.Equal(t, tt.width, width)
		})
	}

	col, err := cat.Collectable(4)
	require.NoError(t, err)
	require.Equal(t, format.PrimitiveUint64, col.Tag.Primitive)
	require.Equal(t, format.ContainerNone, col.Tag.Container())

	_, err = cat.TypeTag(9)
	require.ErrorIs(t, err, errs.ErrUnknownCollectable)
}

func TestCatalog_Metadata(t *testing.T) {
	cat, err := New(testRows())
	require.NoError(t, err)

	layout, err := cat.StructLayout("Inst")
	require.NoError(t, err)
	require.Equal(t, []string{"uid", "stage", "op"}, layout.FieldNames())
	require.Equal(t, format.DisplayHex, layout.Fields[0].Display)
	require.True(t, layout.Fields[1].AutoColorizeKey)
	require.False(t, layout.Fields[2].DisplayedByDefault)

	_, err = cat.StructLayout("Missing")
	require.ErrorIs(t, err, errs.ErrUnknownStruct)

	enum, err := cat.EnumTable("Stage")
	require.NoError(t, err)
	name, ok := enum.Lookup(1)
	require.True(t, ok)
	require.Equal(t, "RETIRE", name)

	_, err = cat.EnumTable("Missing")
	require.ErrorIs(t, err, errs.ErrUnknownEnum)

	s, err := cat.InternString(1)
	require.NoError(t, err)
	require.Equal(t, "add", s)

	_, err = cat.InternString(7)
	require.ErrorIs(t, err, errs.ErrUnknownString)

	n, ok := cat.QueueMaxSize(7)
	require.True(t, ok)
	require.Equal(t, 6, n)

	_, ok = cat.QueueMaxSize(8)
	require.False(t, ok)
}

// QueueMaxSizes rows name the container by element id, which differs from the
// CollectableTreeNodes id in traces written by the simulator.
func TestCatalog_QueueMaxSizeByElementID(t *testing.T) {
	rows := Rows{
		Elements: []ElementRow{
			{ID: 1, Name: "root"},
			{ID: 2, ParentID: 1, Name: "top"},
			{ID: 3, ParentID: 2, Name: "rob"},
		},
		Collectables: []CollectableRow{
			{ID: 1, ElementID: 3, ClockID: 1, DataType: "Inst_contig_capacity4", AutoCollected: true},
		},
		StructFields: []StructFieldRow{
			{StructName: "Inst", FieldName: "uid", FieldType: "uint64_t"},
		},
		QueueMaxSizes: []QueueMaxSizeRow{{ElementID: 3, MaxSize: 4}},
	}

	cat, err := New(rows)
	require.NoError(t, err)

	n, ok := cat.QueueMaxSize(3)
	require.True(t, ok)
	require.Equal(t, 4, n)
	_, ok = cat.QueueMaxSize(1)
	require.False(t, ok)
	require.Empty(t, cat.UntrackedQueueMaxSizes())

	// Rows for unknown or non-container elements do not fail the load.
	rows.QueueMaxSizes = append(rows.QueueMaxSizes, QueueMaxSizeRow{ElementID: 999, MaxSize: 1}, QueueMaxSizeRow{ElementID: 2, MaxSize: 1})
	cat, err = New(rows)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 999}, cat.UntrackedQueueMaxSizes())

	n, ok = cat.QueueMaxSize(3)
	require.True(t, ok)
	require.Equal(t, 4, n)
}

func TestCatalog_PathCategories(t *testing.T) {
	cat, err := New(testRows())
	require.NoError(t, err)

	require.Equal(t, []string{"top.core0.retired", "top.core0.stage"}, cat.ScalarPaths())
	require.Equal(t, []string{"top.core0.head"}, cat.StructPaths())
	require.Equal(t, []string{"top.core0.lsq", "top.core0.rob"}, cat.ContainerPaths())
	require.Equal(t, []string{
		"top.core0.head", "top.core0.lsq", "top.core0.retired", "top.core0.rob", "top.core0.stage",
	}, cat.TrackedPaths())

	cols := cat.Collectables()
	require.Len(t, cols, 5)
	require.Equal(t, int64(4), cols[0].ElementID)
	require.Equal(t, int64(8), cols[4].ElementID)
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Rows)
		err    error
	}{
		{
			name:   "multiple roots",
			mutate: func(r *Rows) { r.Elements = append(r.Elements, ElementRow{ID: 50, ParentID: 0, Name: "other"}) },
			err:    errs.ErrMultipleRoots,
		},
		{
			name:   "no root",
			mutate: func(r *Rows) { r.Elements = r.Elements[1:] },
			err:    errs.ErrMissingRoot,
		},
		{
			name:   "duplicate path",
			mutate: func(r *Rows) { r.Elements = append(r.Elements, ElementRow{ID: 50, ParentID: 3, Name: "rob"}) },
			err:    errs.ErrPathCollision,
		},
		{
			name:   "unknown data type",
			mutate: func(r *Rows) { r.Collectables[0].DataType = "Widget" },
			err:    errs.ErrInvalidDataType,
		},
		{
			name:   "bad capacity",
			mutate: func(r *Rows) { r.Collectables[3].DataType = "Inst_contig_capacityX" },
			err:    errs.ErrInvalidDataType,
		},
		{
			name:   "container of unknown struct",
			mutate: func(r *Rows) { r.Collectables[3].DataType = "Uop_contig_capacity8" },
			err:    errs.ErrUnknownStruct,
		},
		{
			name:   "collectable for unknown element",
			mutate: func(r *Rows) { r.Collectables[0].ElementID = 77 },
			err:    errs.ErrUnknownPath,
		},
		{
			name:   "unknown field type",
			mutate: func(r *Rows) { r.StructFields[2].FieldType = "Widget" },
			err:    errs.ErrUnknownPrimitive,
		},
		{
			name:   "non-integer enum",
			mutate: func(r *Rows) { r.Enums[0].IntType = "double" },
			err:    errs.ErrInvalidEnumType,
		},
		{
			name:   "mixed enum types",
			mutate: func(r *Rows) { r.Enums[1].IntType = "int16_t" },
			err:    errs.ErrInvalidEnumType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := testRows()
			tt.mutate(&rows)

			_, err := New(rows)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSplitContainer(t *testing.T) {
	tests := []struct {
		dataType string
		elem     string
		kind     format.ContainerKind
		capacity int
		wantErr  bool
	}{
		{"uint32_t", "uint32_t", format.ContainerNone, 0, false},
		{"Inst_contig_capacity16", "Inst", format.ContainerContiguous, 16, false},
		{"Inst_sparse_capacity4", "Inst", format.ContainerSparse, 4, false},
		{"My_contig_Struct_sparse_capacity2", "My_contig_Struct", format.ContainerSparse, 2, false},
		{"Inst_sparse_capacity0", "", format.ContainerNone, 0, true},
		{"_contig_capacity4", "", format.ContainerNone, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			elem, kind, capacity, err := splitContainer(tt.dataType)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidDataType)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.elem, elem)
			require.Equal(t, tt.kind, kind)
			require.Equal(t, tt.capacity, capacity)
		})
	}
}
