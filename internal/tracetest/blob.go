package tracetest

import (
	"sort"

	"github.com/arloliu/simtrace/encoding"
	"github.com/arloliu/simtrace/format"
)

// Blob builds the multiplexed payload of one tick record.
type Blob struct {
	w *encoding.Writer
}

// NewBlob creates an empty tick record payload.
func NewBlob() *Blob {
	return &Blob{w: encoding.NewWriter()}
}

// Direct appends a directly written value.
func (b *Blob) Direct(id uint16, payload []byte) *Blob {
	b.w.WriteU16(id).WriteBytes(payload)
	return b
}

// U32 appends a directly written uint32 value.
func (b *Blob) U32(id uint16, v uint32) *Blob {
	b.w.WriteU16(id).WriteU32(v)
	return b
}

// Write appends a tagged WRITE of a wide auto-collected value.
func (b *Blob) Write(id uint16, payload []byte) *Blob {
	b.w.WriteU16(id).WriteU8(byte(format.ValueWrite)).WriteBytes(payload)
	return b
}

// Carry appends a tagged CARRY of a wide auto-collected value.
func (b *Blob) Carry(id uint16) *Blob {
	b.w.WriteU16(id).WriteU8(byte(format.ValueCarry))
	return b
}

// Full appends a contiguous container FULL dump.
func (b *Blob) Full(id uint16, items ...[]byte) *Blob {
	b.w.WriteU16(id).WriteU8(byte(format.ContigFull)).WriteU16(uint16(len(items))) //nolint:gosec
	for _, it := range items {
		b.w.WriteBytes(it)
	}

	return b
}

// Arrive appends a contiguous container ARRIVE.
func (b *Blob) Arrive(id uint16, item []byte) *Blob {
	b.w.WriteU16(id).WriteU8(byte(format.ContigArrive)).WriteBytes(item)
	return b
}

// Depart appends a contiguous container DEPART.
func (b *Blob) Depart(id uint16) *Blob {
	b.w.WriteU16(id).WriteU8(byte(format.ContigDepart))
	return b
}

// Bookends appends a contiguous container BOOKENDS.
func (b *Blob) Bookends(id uint16, item []byte) *Blob {
	b.w.WriteU16(id).WriteU8(byte(format.ContigBookends)).WriteBytes(item)
	return b
}

// Change appends a contiguous container CHANGE.
func (b *Blob) Change(id uint16, index uint16, item []byte) *Blob {
	b.w.WriteU16(id).WriteU8(byte(format.ContigChange)).WriteU16(index).WriteBytes(item)
	return b
}

// ContigCarry appends a contiguous container CARRY.
func (b *Blob) ContigCarry(id uint16) *Blob {
	b.w.WriteU16(id).WriteU8(byte(format.ContigCarry))
	return b
}

// Sparse appends a sparse container dump with buckets in ascending order.
func (b *Blob) Sparse(id uint16, buckets map[uint16][]byte) *Blob {
	order := make([]uint16, 0, len(buckets))
	for idx := range buckets {
		order = append(order, idx)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	b.w.WriteU16(id).WriteU16(uint16(len(order))) //nolint:gosec
	for _, idx := range order {
		b.w.WriteU16(idx)
	}
	for _, idx := range order {
		b.w.WriteBytes(buckets[idx])
	}

	return b
}

// Bytes finishes the payload. The Blob must not be used afterwards.
func (b *Blob) Bytes() []byte {
	return b.w.Finish()
}
