package encoding

import (
	"fmt"

	"github.com/arloliu/simtrace/errs"
	"github.com/arloliu/simtrace/format"
)

// ScalarDecoder decodes one primitive, enum, or interned string value from a
// fixed-width byte window.
//
// Decoding is pure: the decoder holds only read-only tables and can be shared
// by any number of goroutines.
type ScalarDecoder struct {
	prim    format.Primitive
	enum    *EnumTable
	strings StringTable
}

// NewScalarDecoder creates a decoder for a primitive type.
//
// Parameters:
//   - prim: primitive to decode
//   - strings: intern table consulted for format.PrimitiveString, may be nil otherwise
//
// Returns:
//   - *ScalarDecoder: the decoder
//   - error: errs.ErrUnknownPrimitive if prim is not a valid primitive
func NewScalarDecoder(prim format.Primitive, strings StringTable) (*ScalarDecoder, error) {
	if prim.Width() == 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownPrimitive, prim)
	}

	return &ScalarDecoder{prim: prim, strings: strings}, nil
}

// NewEnumDecoder creates a decoder that reads the enum's underlying integer and
// maps it to the enumerator name.
func NewEnumDecoder(table *EnumTable) *ScalarDecoder {
	return &ScalarDecoder{prim: table.Base(), enum: table}
}

// Width returns the number of bytes consumed by one value.
func (d *ScalarDecoder) Width() int {
	return d.prim.Width()
}

// Primitive returns the primitive read from the wire. For enums this is the
// underlying integer type.
func (d *ScalarDecoder) Primitive() format.Primitive {
	return d.prim
}

// Enum returns the enum table, or nil for plain primitives.
func (d *ScalarDecoder) Enum() *EnumTable {
	return d.enum
}

// Decode decodes the value at the start of data. Bytes beyond Width are ignored.
func (d *ScalarDecoder) Decode(data []byte) (any, error) {
	return d.DecodeFrom(NewCursor(data))
}

// DecodeFrom decodes one value at the cursor position and advances the cursor
// by Width bytes.
func (d *ScalarDecoder) DecodeFrom(c *Cursor) (any, error) {
	if d.enum != nil {
		raw, err := readInteger(c, d.prim)
		if err != nil {
			return nil, err
		}
		name, ok := d.enum.Lookup(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %d in enum %q", errs.ErrUnknownEnumValue, raw, d.enum.Name())
		}

		return name, nil
	}

	switch d.prim {
	case format.PrimitiveInt8, format.PrimitiveInt16, format.PrimitiveInt32, format.PrimitiveInt64:
		return readInteger(c, d.prim)
	case format.PrimitiveUint8:
		v, err := c.ReadU8()
		return uint64(v), err
	case format.PrimitiveUint16:
		v, err := c.ReadU16()
		return uint64(v), err
	case format.PrimitiveUint32:
		v, err := c.ReadU32()
		return uint64(v), err
	case format.PrimitiveUint64:
		return c.ReadU64()
	case format.PrimitiveFloat:
		v, err := c.ReadF32()
		return float64(v), err
	case format.PrimitiveDouble:
		return c.ReadF64()
	case format.PrimitiveBool:
		v, err := c.ReadU32()
		return v != 0, err
	case format.PrimitiveChar:
		v, err := c.ReadU8()
		if err != nil {
			return nil, err
		}

		return string(rune(v)), nil
	case format.PrimitiveString:
		id, err := c.ReadU32()
		if err != nil {
			return nil, err
		}

		return d.strings.Lookup(id)
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownPrimitive, d.prim)
	}
}
