package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/simtrace/errs"
)

func TestCursor_TypedReads(t *testing.T) {
	data := NewWriter().
		WriteU8(0xff).
		WriteU16(0x1234).
		WriteU32(0xdeadbeef).
		WriteU64(math.MaxUint64).
		WriteF32(1.5).
		WriteF64(-2.25).
		WriteI32(-7).
		Finish()

	c := NewCursor(data)
	require.Equal(t, len(data), c.Len())

	i8, err := c.ReadI8()
	require.NoError(t, err)
	require.Equal(t, int8(-1), i8)

	u16, err := c.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)

	u32, err := c.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xdeadbeef), u32)

	i64, err := c.ReadI64()
	require.NoError(t, err)
	require.Equal(t, int64(-1), i64)

	f32, err := c.ReadF32()
	require.NoError(t, err)
	require.InDelta(t, 1.5, f32, 0)

	f64, err := c.ReadF64()
	require.NoError(t, err)
	require.InDelta(t, -2.25, f64, 0)

	i32, err := c.ReadI32()
	require.NoError(t, err)
	require.Equal(t, int32(-7), i32)

	require.Equal(t, 0, c.Remaining())
	require.Equal(t, len(data), c.Offset())
}

func TestCursor_LittleEndian(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x00, 0x07, 0x00, 0x00, 0x00})

	id, err := c.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint16(1), id)

	v, err := c.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(7), v)
}

func TestCursor_Truncated(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03})

	_, err := c.ReadU32()
	require.ErrorIs(t, err, errs.ErrTruncatedRecord)
	require.Equal(t, 0, c.Offset(), "failed read must not consume")

	b, err := c.ReadBytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, b)
	require.Equal(t, []byte{0x03}, c.Rest())

	require.ErrorIs(t, c.Skip(2), errs.ErrTruncatedRecord)
	require.NoError(t, c.Skip(1))

	_, err = c.ReadU8()
	require.ErrorIs(t, err, errs.ErrTruncatedRecord)
}
