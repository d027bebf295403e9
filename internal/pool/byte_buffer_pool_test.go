package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	capacity := 1024
	bb := NewByteBuffer(capacity)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, bb.Len(), "new buffer should have zero length")
	assert.Equal(t, capacity, bb.Cap(), "new buffer should have specified capacity")
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(RecordBufferDefaultSize)
	bb.B = append(bb.B, []byte("some data")...)
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, len(bb.B), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, cap(bb.B), "Reset should preserve capacity")
}

func TestByteBuffer_Set(t *testing.T) {
	bb := NewByteBuffer(16)
	grown := append(bb.B[:0], make([]byte, 64)...)

	bb.Set(grown)
	assert.Equal(t, 64, bb.Len())
	assert.GreaterOrEqual(t, bb.Cap(), 64)
	assert.Equal(t, grown, bb.Bytes())
}

func TestGetPut_RecordBuffer(t *testing.T) {
	bb := GetRecordBuffer()
	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())

	bb.B = append(bb.B, []byte("tick data")...)
	PutRecordBuffer(bb)

	// Whatever buffer comes back must be empty.
	again := GetRecordBuffer()
	assert.Equal(t, 0, again.Len())
	PutRecordBuffer(again)

	PutRecordBuffer(nil)
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(8, 32)

	small := p.Get()
	small.B = append(small.B, 1, 2, 3)
	p.Put(small)

	large := p.Get()
	large.Set(make([]byte, 0, 64))
	p.Put(large)

	// Oversized buffers are never handed out again.
	for range 10 {
		bb := p.Get()
		assert.LessOrEqual(t, bb.Cap(), 32)
		assert.Equal(t, 0, bb.Len())
	}
}

func TestByteBufferPool_ConcurrentAccess(t *testing.T) {
	p := NewByteBufferPool(64, 0)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range 100 {
				bb := p.Get()
				bb.B = append(bb.B, byte(id))
				p.Put(bb)
			}
		}(i)
	}
	wg.Wait()
}
