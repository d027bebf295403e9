package format

import "strings"

type (
	Primitive       uint8
	ContainerKind   uint8
	DisplayFormat   uint8
	CompressionType uint8
)

const (
	PrimitiveInvalid Primitive = iota
	PrimitiveChar
	PrimitiveInt8
	PrimitiveUint8
	PrimitiveInt16
	PrimitiveUint16
	PrimitiveInt32
	PrimitiveUint32
	PrimitiveFloat
	PrimitiveInt64
	PrimitiveUint64
	PrimitiveDouble
	PrimitiveBool   // stored as a 4-byte integer
	PrimitiveString // stored as a uint32 string table index
)

const (
	ContainerNone       ContainerKind = 0x0 // ContainerNone is a plain scalar or struct element.
	ContainerContiguous ContainerKind = 0x1 // ContainerContiguous is a FIFO-like queue replayed from deltas.
	ContainerSparse     ContainerKind = 0x2 // ContainerSparse is a position-addressed table dumped every tick.
)

const (
	DisplayNone      DisplayFormat = 0x0 // DisplayNone renders the value as-is.
	DisplayHex       DisplayFormat = 0x1 // DisplayHex renders integers as 0x-prefixed hex.
	DisplayBoolAlpha DisplayFormat = 0x2 // DisplayBoolAlpha renders integers as true/false.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionZlib CompressionType = 0x5 // CompressionZlib represents zlib (deflate) compression, the trace default.
)

var primitiveNames = map[string]Primitive{
	"char":   PrimitiveChar,
	"int8":   PrimitiveInt8,
	"uint8":  PrimitiveUint8,
	"int16":  PrimitiveInt16,
	"uint16": PrimitiveUint16,
	"int32":  PrimitiveInt32,
	"uint32": PrimitiveUint32,
	"float":  PrimitiveFloat,
	"int64":  PrimitiveInt64,
	"uint64": PrimitiveUint64,
	"double": PrimitiveDouble,
	"bool":   PrimitiveBool,
	"string": PrimitiveString,
}

// ParsePrimitive maps a data type name to its Primitive.
//
// Both the bare form ("int32") and the producer's suffixed form ("int32_t",
// "float_t", "string_t") are accepted.
//
// Returns:
//   - Primitive: the parsed primitive
//   - bool: false if name is not a primitive (it may be an enum or struct name)
func ParsePrimitive(name string) (Primitive, bool) {
	p, ok := primitiveNames[strings.TrimSuffix(name, "_t")]
	return p, ok
}

// Width returns the fixed encoded width of the primitive in bytes.
func (p Primitive) Width() int {
	switch p {
	case PrimitiveChar, PrimitiveInt8, PrimitiveUint8:
		return 1
	case PrimitiveInt16, PrimitiveUint16:
		return 2
	case PrimitiveInt32, PrimitiveUint32, PrimitiveFloat, PrimitiveBool, PrimitiveString:
		return 4
	case PrimitiveInt64, PrimitiveUint64, PrimitiveDouble:
		return 8
	default:
		return 0
	}
}

// IsSigned reports whether the primitive is a signed integer.
func (p Primitive) IsSigned() bool {
	switch p {
	case PrimitiveInt8, PrimitiveInt16, PrimitiveInt32, PrimitiveInt64:
		return true
	default:
		return false
	}
}

// IsInteger reports whether the primitive is a signed or unsigned integer type.
// Only integer primitives may back an enum.
func (p Primitive) IsInteger() bool {
	switch p {
	case PrimitiveInt8, PrimitiveUint8, PrimitiveInt16, PrimitiveUint16,
		PrimitiveInt32, PrimitiveUint32, PrimitiveInt64, PrimitiveUint64:
		return true
	default:
		return false
	}
}

func (p Primitive) String() string {
	for name, prim := range primitiveNames {
		if prim == p {
			return name
		}
	}

	return "Unknown"
}

func (k ContainerKind) String() string {
	switch k {
	case ContainerNone:
		return "None"
	case ContainerContiguous:
		return "Contiguous"
	case ContainerSparse:
		return "Sparse"
	default:
		return "Unknown"
	}
}

func (d DisplayFormat) String() string {
	switch d {
	case DisplayNone:
		return "None"
	case DisplayHex:
		return "Hex"
	case DisplayBoolAlpha:
		return "BoolAlpha"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZlib:
		return "Zlib"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a lower-case algorithm name to its CompressionType.
func ParseCompression(name string) (CompressionType, bool) {
	switch strings.ToLower(name) {
	case "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	case "zlib", "":
		return CompressionZlib, true
	default:
		return 0, false
	}
}
