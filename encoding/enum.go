package encoding

import (
	"fmt"
	"sort"

	"github.com/arloliu/simtrace/errs"
	"github.com/arloliu/simtrace/format"
)

// EnumTable is a bidirectional mapping between the integer values of an enum and
// their names, together with the enum's underlying integer type.
type EnumTable struct {
	name    string
	base    format.Primitive
	byValue map[int64]string
	byName  map[string]int64
}

// NewEnumTable creates an empty enum table.
//
// Returns an error wrapping errs.ErrInvalidEnumType if base is not an integer
// primitive.
func NewEnumTable(name string, base format.Primitive) (*EnumTable, error) {
	if !base.IsInteger() {
		return nil, fmt.Errorf("%w: enum %q declares %s", errs.ErrInvalidEnumType, name, base)
	}

	return &EnumTable{
		name:    name,
		base:    base,
		byValue: make(map[int64]string),
		byName:  make(map[string]int64),
	}, nil
}

// Add registers an enumerator. A later registration of the same value wins.
func (t *EnumTable) Add(value int64, name string) {
	t.byValue[value] = name
	t.byName[name] = value
}

// AddBlob registers an enumerator whose value is stored as raw little-endian
// bytes of the enum's underlying type.
func (t *EnumTable) AddBlob(blob []byte, name string) error {
	v, err := readInteger(NewCursor(blob), t.base)
	if err != nil {
		return fmt.Errorf("enum %q value %q: %w", t.name, name, err)
	}
	t.Add(v, name)

	return nil
}

// Name returns the enum's name.
func (t *EnumTable) Name() string { return t.name }

// Base returns the underlying integer primitive.
func (t *EnumTable) Base() format.Primitive { return t.base }

// Width returns the encoded width in bytes.
func (t *EnumTable) Width() int { return t.base.Width() }

// Len returns the number of enumerators.
func (t *EnumTable) Len() int { return len(t.byValue) }

// Lookup returns the enumerator name for value.
func (t *EnumTable) Lookup(value int64) (string, bool) {
	s, ok := t.byValue[value]
	return s, ok
}

// Value returns the integer value of the named enumerator.
func (t *EnumTable) Value(name string) (int64, bool) {
	v, ok := t.byName[name]
	return v, ok
}

// Names returns enumerator names ordered by value.
func (t *EnumTable) Names() []string {
	values := make([]int64, 0, len(t.byValue))
	for v := range t.byValue {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	names := make([]string, len(values))
	for i, v := range values {
		names[i] = t.byValue[v]
	}

	return names
}

// StringTable maps interned string ids to their text.
type StringTable map[uint32]string

// Lookup returns the interned string for id, or an error wrapping
// errs.ErrUnknownString.
func (st StringTable) Lookup(id uint32) (string, error) {
	s, ok := st[id]
	if !ok {
		return "", fmt.Errorf("%w: %d", errs.ErrUnknownString, id)
	}

	return s, nil
}

// readInteger reads an integer primitive and widens it to int64. Unsigned 64-bit
// values above math.MaxInt64 wrap, which keeps them usable as map keys.
func readInteger(c *Cursor, p format.Primitive) (int64, error) {
	switch p {
	case format.PrimitiveInt8:
		v, err := c.ReadI8()
		return int64(v), err
	case format.PrimitiveUint8:
		v, err := c.ReadU8()
		return int64(v), err
	case format.PrimitiveInt16:
		v, err := c.ReadI16()
		return int64(v), err
	case format.PrimitiveUint16:
		v, err := c.ReadU16()
		return int64(v), err
	case format.PrimitiveInt32:
		v, err := c.ReadI32()
		return int64(v), err
	case format.PrimitiveUint32:
		v, err := c.ReadU32()
		return int64(v), err
	case format.PrimitiveInt64:
		return c.ReadI64()
	case format.PrimitiveUint64:
		v, err := c.ReadU64()
		return int64(v), err //nolint:gosec
	default:
		return 0, fmt.Errorf("%w: %s is not an integer", errs.ErrInvalidEnumType, p)
	}
}
