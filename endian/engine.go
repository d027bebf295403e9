// Package endian provides the byte order engine used by every trace decoder.
//
// Trace records are always written little-endian by the simulator, regardless of
// the host that produced them, so decoders obtain their engine from
// GetLittleEndianEngine rather than from the host byte order.
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// The read half is used by decoders; the append half is used by the test tooling
// that builds trace records.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine, the only byte order
// used by trace records.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
