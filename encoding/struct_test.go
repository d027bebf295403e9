package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/simtrace/errs"
	"github.com/arloliu/simtrace/format"
)

func newInstLayout(t *testing.T) *StructLayout {
	t.Helper()

	unit, err := NewEnumTable("Unit", format.PrimitiveUint8)
	require.NoError(t, err)
	unit.Add(0, "ALU")
	unit.Add(1, "LSU")

	layout := &StructLayout{
		Name: "Inst",
		Fields: []FieldDescriptor{
			{Name: "uid", Type: "uint64_t", Display: format.DisplayHex},
			{Name: "pc", Type: "uint32_t", Display: format.DisplayHex},
			{Name: "unit", Type: "Unit"},
			{Name: "mnemonic", Type: "string_t"},
			{Name: "valid", Type: "bool", Display: format.DisplayBoolAlpha},
		},
	}
	require.NoError(t, layout.Resolve(map[string]*EnumTable{"Unit": unit}, StringTable{4: "add"}))

	return layout
}

func instBytes(uid uint64, pc uint32, unit uint8, mnemonic uint32, valid bool) []byte {
	w := NewWriter().WriteU64(uid).WriteU32(pc).WriteU8(unit).WriteU32(mnemonic)
	if valid {
		w.WriteU32(1)
	} else {
		w.WriteU32(0)
	}

	return w.Finish()
}

func TestStructLayout_Resolve(t *testing.T) {
	layout := newInstLayout(t)

	require.Equal(t, 8+4+1+4+4, layout.Width())
	require.Equal(t, []string{"uid", "pc", "unit", "mnemonic", "valid"}, layout.FieldNames())

	f, ok := layout.Field("unit")
	require.True(t, ok)
	require.NotNil(t, f.Decoder().Enum())

	_, ok = layout.Field("missing")
	require.False(t, ok)

	bad := &StructLayout{Name: "Bad", Fields: []FieldDescriptor{{Name: "x", Type: "Nope"}}}
	require.ErrorIs(t, bad.Resolve(nil, nil), errs.ErrUnknownPrimitive)
}

func TestStructDecoder_Decode(t *testing.T) {
	dec, err := NewStructDecoder(newInstLayout(t))
	require.NoError(t, err)
	require.Equal(t, 21, dec.Width())

	rec, err := dec.Decode(instBytes(0x2a, 0x1000, 1, 4, true), nil)
	require.NoError(t, err)
	require.Equal(t, Record{
		{Name: "uid", Value: uint64(0x2a)},
		{Name: "pc", Value: uint64(0x1000)},
		{Name: "unit", Value: "LSU"},
		{Name: "mnemonic", Value: "add"},
		{Name: "valid", Value: true},
	}, rec)

	v, ok := rec.Get("unit")
	require.True(t, ok)
	require.Equal(t, "LSU", v)
}

func TestStructDecoder_VisibleFields(t *testing.T) {
	dec, err := NewStructDecoder(newInstLayout(t))
	require.NoError(t, err)

	visible := func(name string) bool { return name == "pc" || name == "valid" }
	rec, err := dec.Decode(instBytes(1, 0x20, 0, 4, false), visible)
	require.NoError(t, err)
	require.Equal(t, []string{"pc", "valid"}, rec.Names())

	pc, _ := rec.Get("pc")
	require.Equal(t, uint64(0x20), pc)
	valid, _ := rec.Get("valid")
	require.Equal(t, false, valid)
}

func TestStructDecoder_Errors(t *testing.T) {
	dec, err := NewStructDecoder(newInstLayout(t))
	require.NoError(t, err)

	data := instBytes(1, 2, 0, 4, true)
	_, err = dec.Decode(data[:len(data)-1], nil)
	require.ErrorIs(t, err, errs.ErrTruncatedRecord)

	_, err = dec.Decode(append(data, 0), nil)
	require.ErrorIs(t, err, errs.ErrTruncatedRecord)

	_, err = dec.Decode(instBytes(1, 2, 9, 4, true), nil)
	require.ErrorIs(t, err, errs.ErrUnknownEnumValue)

	_, err = NewStructDecoder(&StructLayout{Name: "Raw", Fields: []FieldDescriptor{{Name: "x", Type: "int8"}}})
	require.Error(t, err)
}

func TestStructDecoder_FormatRecord(t *testing.T) {
	dec, err := NewStructDecoder(newInstLayout(t))
	require.NoError(t, err)

	rec, err := dec.Decode(instBytes(255, 16, 0, 4, true), nil)
	require.NoError(t, err)
	require.Equal(t, "{uid=0xff pc=0x10 unit=ALU mnemonic=add valid=true}", dec.FormatRecord(rec))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		display format.DisplayFormat
		want    string
	}{
		{"nil", nil, format.DisplayNone, ""},
		{"int", int64(-3), format.DisplayNone, "-3"},
		{"int hex", int64(255), format.DisplayHex, "0xff"},
		{"uint hex", uint64(4096), format.DisplayHex, "0x1000"},
		{"uint boolalpha", uint64(0), format.DisplayBoolAlpha, "false"},
		{"int boolalpha", int64(3), format.DisplayBoolAlpha, "true"},
		{"float ignores hex", float64(1.5), format.DisplayHex, "1.5"},
		{"bool", true, format.DisplayNone, "true"},
		{"string", "ALU", format.DisplayHex, "ALU"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FormatValue(tt.value, tt.display))
		})
	}
}
