package encoding

import (
	"fmt"
	"strings"

	"github.com/arloliu/simtrace/errs"
	"github.com/arloliu/simtrace/format"
)

// FieldDescriptor describes one field of a struct layout.
type FieldDescriptor struct {
	Name string
	// Type is the declared type name: a primitive or an enum name.
	Type    string
	Display format.DisplayFormat
	// DisplayedByDefault and AutoColorizeKey are presentation hints carried
	// through for consumers; decoding ignores them.
	DisplayedByDefault bool
	AutoColorizeKey    bool

	decoder *ScalarDecoder
}

// Decoder returns the scalar decoder bound to the field, or nil if the layout
// has not been resolved.
func (f *FieldDescriptor) Decoder() *ScalarDecoder {
	return f.decoder
}

// StructLayout is the ordered field list of a struct. Its byte width is the
// sum of its field widths and never changes once resolved.
type StructLayout struct {
	Name   string
	Fields []FieldDescriptor
	width  int
}

// Resolve binds every field to a scalar decoder.
//
// Field types are looked up first as primitives, then in enums.
//
// Returns an error wrapping errs.ErrUnknownPrimitive if a field type is neither.
func (l *StructLayout) Resolve(enums map[string]*EnumTable, strings StringTable) error {
	width := 0
	for i := range l.Fields {
		f := &l.Fields[i]
		if prim, ok := format.ParsePrimitive(f.Type); ok {
			dec, err := NewScalarDecoder(prim, strings)
			if err != nil {
				return fmt.Errorf("struct %q field %q: %w", l.Name, f.Name, err)
			}
			f.decoder = dec
		} else if enum, ok := enums[f.Type]; ok {
			f.decoder = NewEnumDecoder(enum)
		} else {
			return fmt.Errorf("%w: struct %q field %q has type %q",
				errs.ErrUnknownPrimitive, l.Name, f.Name, f.Type)
		}
		width += f.decoder.Width()
	}
	l.width = width

	return nil
}

// Width returns the fixed byte width of the struct.
func (l *StructLayout) Width() int {
	return l.width
}

// Field returns the descriptor of the named field.
func (l *StructLayout) Field(name string) (*FieldDescriptor, bool) {
	for i := range l.Fields {
		if l.Fields[i].Name == name {
			return &l.Fields[i], true
		}
	}

	return nil, false
}

// FieldNames returns field names in declared order.
func (l *StructLayout) FieldNames() []string {
	names := make([]string, len(l.Fields))
	for i := range l.Fields {
		names[i] = l.Fields[i].Name
	}

	return names
}

// Field is one decoded struct field.
type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Record is a decoded struct: its visible fields in declared order.
type Record []Field

// Get returns the value of the named field.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}

	return nil, false
}

// Names returns the field names of the record in order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}

	return names
}

// FieldFilter reports whether a field should be decoded. A nil FieldFilter
// selects every field.
type FieldFilter func(field string) bool

// StructDecoder decodes fixed-width struct payloads according to a resolved
// StructLayout.
type StructDecoder struct {
	layout *StructLayout
}

// NewStructDecoder creates a decoder for a resolved layout.
func NewStructDecoder(layout *StructLayout) (*StructDecoder, error) {
	for i := range layout.Fields {
		if layout.Fields[i].decoder == nil {
			return nil, fmt.Errorf("struct %q field %q is not resolved", layout.Name, layout.Fields[i].Name)
		}
	}

	return &StructDecoder{layout: layout}, nil
}

// Layout returns the decoder's layout.
func (d *StructDecoder) Layout() *StructLayout {
	return d.layout
}

// Width returns the fixed byte width of the struct.
func (d *StructDecoder) Width() int {
	return d.layout.width
}

// Decode decodes one struct payload.
//
// Fields are decoded in declared order. Fields rejected by visible are skipped
// but still advance the read position, so the remaining fields decode from
// their correct offsets.
//
// Parameters:
//   - data: exactly Width() bytes
//   - visible: field filter, nil for all fields
//
// Returns:
//   - Record: decoded visible fields
//   - error: errs.ErrTruncatedRecord if len(data) != Width(), or any field decode error
func (d *StructDecoder) Decode(data []byte, visible FieldFilter) (Record, error) {
	if len(data) != d.layout.width {
		return nil, fmt.Errorf("%w: struct %q needs %d bytes, got %d",
			errs.ErrTruncatedRecord, d.layout.Name, d.layout.width, len(data))
	}

	c := NewCursor(data)
	rec := make(Record, 0, len(d.layout.Fields))
	for i := range d.layout.Fields {
		f := &d.layout.Fields[i]
		if visible != nil && !visible(f.Name) {
			if err := c.Skip(f.decoder.Width()); err != nil {
				return nil, err
			}

			continue
		}

		v, err := f.decoder.DecodeFrom(c)
		if err != nil {
			return nil, fmt.Errorf("struct %q field %q: %w", d.layout.Name, f.Name, err)
		}
		rec = append(rec, Field{Name: f.Name, Value: v})
	}

	return rec, nil
}

// FormatRecord renders a record as "{name=value ...}" applying each field's
// display format.
func (d *StructDecoder) FormatRecord(rec Record) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range rec {
		if i > 0 {
			sb.WriteByte(' ')
		}
		display := format.DisplayNone
		if desc, ok := d.layout.Field(f.Name); ok {
			display = desc.Display
		}
		sb.WriteString(f.Name)
		sb.WriteByte('=')
		sb.WriteString(FormatValue(f.Value, display))
	}
	sb.WriteByte('}')

	return sb.String()
}
