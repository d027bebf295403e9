package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/simtrace/endian"
	"github.com/arloliu/simtrace/errs"
)

// Cursor reads little-endian values sequentially from a byte window.
//
// Every read either consumes exactly the width of the requested type or fails
// with an error wrapping errs.ErrTruncatedRecord and leaves the offset untouched.
// Slices returned by ReadBytes alias the underlying window.
type Cursor struct {
	data   []byte
	offset int
	engine endian.EndianEngine
}

// NewCursor creates a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{
		data:   data,
		engine: endian.GetLittleEndianEngine(),
	}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.offset
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.offset
}

// Len returns the total length of the window.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Rest returns the unread part of the window without consuming it.
func (c *Cursor) Rest() []byte {
	return c.data[c.offset:]
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			errs.ErrTruncatedRecord, n, c.offset, c.Remaining())
	}

	b := c.data[c.offset : c.offset+n]
	c.offset += n

	return b, nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.take(n)
	return err
}

// ReadBytes returns the next n bytes. The result aliases the window.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	return c.take(n)
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint32(b), nil
}

// ReadU64 reads a little-endian uint64.
func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint64(b), nil
}

// ReadI8 reads one byte as a signed integer.
func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err //nolint:gosec
}

// ReadI16 reads a little-endian int16.
func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err //nolint:gosec
}

// ReadI32 reads a little-endian int32.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err //nolint:gosec
}

// ReadI64 reads a little-endian int64.
func (c *Cursor) ReadI64() (int64, error) {
	v, err := c.ReadU64()
	return int64(v), err //nolint:gosec
}

// ReadF32 reads a little-endian IEEE 754 float32.
func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	return math.Float32frombits(v), err
}

// ReadF64 reads a little-endian IEEE 754 float64.
func (c *Cursor) ReadF64() (float64, error) {
	v, err := c.ReadU64()
	return math.Float64frombits(v), err
}
