// Package errs defines the sentinel errors returned by simtrace.
//
// Every error produced while loading a trace or replaying it wraps exactly one of
// these sentinels, so callers can classify failures with errors.Is regardless of
// the context added along the way.
package errs

import "errors"

// Catalog lookup errors.
var (
	ErrUnknownPath        = errors.New("unknown element path")
	ErrUnknownCollectable = errors.New("unknown collectable id")
	ErrUnknownStruct      = errors.New("unknown struct name")
	ErrUnknownEnum        = errors.New("unknown enum name")
	ErrUnknownEnumValue   = errors.New("unknown enum value")
	ErrUnknownString      = errors.New("unknown interned string id")
	ErrUnknownPrimitive   = errors.New("unknown primitive type")
	ErrInvalidEnumType    = errors.New("invalid enum integer type")
	ErrInvalidDataType    = errors.New("invalid collectable data type")
	ErrMultipleRoots      = errors.New("multiple roots found in element tree")
	ErrMissingRoot        = errors.New("element tree has no root")
	ErrPathCollision      = errors.New("duplicate element path")
	ErrNotContainer       = errors.New("element is not a container")
)

// Record decoding errors. Any of these aborts the query in progress.
var (
	ErrTruncatedRecord    = errors.New("truncated record")
	ErrInvalidActionTag   = errors.New("invalid action tag")
	ErrNoPriorValue       = errors.New("carry without prior value")
	ErrInvalidContainerOp = errors.New("invalid container operation")
	ErrDecompression      = errors.New("decompression failed")
)

// Store errors.
var (
	ErrStoreNotOpen = errors.New("store is not open")
)
