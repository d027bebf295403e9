package encoding

import (
	"math"

	"github.com/arloliu/simtrace/endian"
	"github.com/arloliu/simtrace/internal/pool"
)

// Writer appends little-endian values to a pooled buffer. It mirrors Cursor and
// is used to build tick records for fixtures and tests.
//
// Call Finish to obtain the encoded bytes; the Writer must not be used afterwards.
type Writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// NewWriter creates a writer backed by a pooled record buffer.
func NewWriter() *Writer {
	return &Writer{
		buf:    pool.GetRecordBuffer(),
		engine: endian.GetLittleEndianEngine(),
	}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteU8 appends one byte.
func (w *Writer) WriteU8(v uint8) *Writer {
	w.buf.B = append(w.buf.B, v)
	return w
}

// WriteU16 appends a little-endian uint16.
func (w *Writer) WriteU16(v uint16) *Writer {
	w.buf.B = w.engine.AppendUint16(w.buf.B, v)
	return w
}

// WriteU32 appends a little-endian uint32.
func (w *Writer) WriteU32(v uint32) *Writer {
	w.buf.B = w.engine.AppendUint32(w.buf.B, v)
	return w
}

// WriteU64 appends a little-endian uint64.
func (w *Writer) WriteU64(v uint64) *Writer {
	w.buf.B = w.engine.AppendUint64(w.buf.B, v)
	return w
}

// WriteI32 appends a little-endian int32.
func (w *Writer) WriteI32(v int32) *Writer {
	return w.WriteU32(uint32(v)) //nolint:gosec
}

// WriteI64 appends a little-endian int64.
func (w *Writer) WriteI64(v int64) *Writer {
	return w.WriteU64(uint64(v)) //nolint:gosec
}

// WriteF32 appends a little-endian IEEE 754 float32.
func (w *Writer) WriteF32(v float32) *Writer {
	return w.WriteU32(math.Float32bits(v))
}

// WriteF64 appends a little-endian IEEE 754 float64.
func (w *Writer) WriteF64(v float64) *Writer {
	return w.WriteU64(math.Float64bits(v))
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(b []byte) *Writer {
	w.buf.B = append(w.buf.B, b...)
	return w
}

// Finish returns a copy of the written bytes and releases the buffer to the pool.
func (w *Writer) Finish() []byte {
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())
	pool.PutRecordBuffer(w.buf)
	w.buf = nil

	return out
}
