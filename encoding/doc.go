// Package encoding decodes the fixed-width values carried by simtrace tick records.
//
// A tick record is a multiplexed stream of little-endian binary values with no
// outer framing. This package provides the pieces every replayer and the query
// engine build on:
//
//   - Cursor: sequential typed little-endian reads over a byte window, returning
//     errs.ErrTruncatedRecord instead of panicking on short input
//   - ScalarDecoder: a primitive, enum, or interned string decoder with a fixed width
//   - StructDecoder: an ordered, optionally filtered, field-by-field struct decoder
//   - Writer: the append-only counterpart of Cursor used by fixture builders
//
// # Value Types
//
// Decoded values use a small set of Go types so that consumers never need to
// know the on-disk width of a field:
//
//   - signed integers (int8..int64): int64
//   - unsigned integers (uint8..uint64): uint64
//   - float and double: float64
//   - bool (4-byte integer): bool
//   - char and interned strings: string
//   - enums: string (the enumerator name)
//   - structs: Record
//
// # Thread Safety
//
// Decoders are immutable after construction and safe for concurrent use. A
// Cursor or Writer must not be shared between goroutines.
package encoding
