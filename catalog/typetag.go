package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/simtrace/errs"
	"github.com/arloliu/simtrace/format"
)

// Kind is the closed set of collected element shapes.
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindEnum
	KindStruct
	KindContiguous
	KindSparse
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindEnum:
		return "Enum"
	case KindStruct:
		return "Struct"
	case KindContiguous:
		return "ContiguousContainer"
	case KindSparse:
		return "SparseContainer"
	default:
		return "Unknown"
	}
}

const (
	contigMarker = "_contig_capacity"
	sparseMarker = "_sparse_capacity"
)

// TypeTag is the parsed form of a collectable's DataType.
type TypeTag struct {
	Kind Kind
	// DataType is the unparsed grammar string.
	DataType string
	// Primitive is set for KindScalar.
	Primitive format.Primitive
	// Name is the enum name for KindEnum, otherwise the struct name for
	// KindStruct and both container kinds.
	Name string
	// Capacity is set for container kinds.
	Capacity int
}

// IsContainer reports whether the tag is a contiguous or sparse container.
func (t TypeTag) IsContainer() bool {
	return t.Kind == KindContiguous || t.Kind == KindSparse
}

// Container returns the container discipline of the tag.
func (t TypeTag) Container() format.ContainerKind {
	switch t.Kind {
	case KindContiguous:
		return format.ContainerContiguous
	case KindSparse:
		return format.ContainerSparse
	default:
		return format.ContainerNone
	}
}

func (t TypeTag) String() string {
	if t.IsContainer() {
		return fmt.Sprintf("%s(%s, %d)", t.Kind, t.Name, t.Capacity)
	}
	if t.Kind == KindScalar {
		return fmt.Sprintf("%s(%s)", t.Kind, t.Primitive)
	}

	return fmt.Sprintf("%s(%s)", t.Kind, t.Name)
}

// splitContainer strips a container suffix from dataType.
//
// Returns the element type name, the container kind (ContainerNone when no
// suffix is present) and the capacity.
func splitContainer(dataType string) (string, format.ContainerKind, int, error) {
	for _, m := range []struct {
		marker string
		kind   format.ContainerKind
	}{
		{contigMarker, format.ContainerContiguous},
		{sparseMarker, format.ContainerSparse},
	} {
		idx := strings.LastIndex(dataType, m.marker)
		if idx < 0 {
			continue
		}

		elem := dataType[:idx]
		capacity, err := strconv.Atoi(dataType[idx+len(m.marker):])
		if err != nil || capacity <= 0 || elem == "" {
			return "", format.ContainerNone, 0, fmt.Errorf("%w: %q", errs.ErrInvalidDataType, dataType)
		}

		return elem, m.kind, capacity, nil
	}

	return dataType, format.ContainerNone, 0, nil
}

// parseTypeTag parses dataType, classifying bare names against the known enums
// and structs.
func parseTypeTag(dataType string, isEnum, isStruct func(string) bool) (TypeTag, error) {
	elem, container, capacity, err := splitContainer(dataType)
	if err != nil {
		return TypeTag{}, err
	}

	tag := TypeTag{DataType: dataType, Capacity: capacity}
	switch container {
	case format.ContainerContiguous, format.ContainerSparse:
		if !isStruct(elem) {
			return TypeTag{}, fmt.Errorf("%w: container element %q of %q is not a struct",
				errs.ErrUnknownStruct, elem, dataType)
		}
		tag.Name = elem
		tag.Kind = KindContiguous
		if container == format.ContainerSparse {
			tag.Kind = KindSparse
		}

		return tag, nil
	}

	if prim, ok := format.ParsePrimitive(elem); ok {
		tag.Kind = KindScalar
		tag.Primitive = prim

		return tag, nil
	}

	tag.Name = elem
	switch {
	case isEnum(elem):
		tag.Kind = KindEnum
	case isStruct(elem):
		tag.Kind = KindStruct
	default:
		return TypeTag{}, fmt.Errorf("%w: %q", errs.ErrInvalidDataType, dataType)
	}

	return tag, nil
}
