package compress

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/simtrace/errs"
)

// maxLZ4Record bounds the inflated size of one LZ4 tick record. LZ4 blocks
// carry no decompressed length, so inflation retries with a doubling buffer.
const maxLZ4Record = 128 << 20

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor reads and writes tick records as raw LZ4 blocks.
type LZ4Compressor struct{}

var (
	_ Codec              = (*LZ4Compressor)(nil)
	_ AppendDecompressor = (*LZ4Compressor)(nil)
)

// NewLZ4Compressor creates a new LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress encodes a tick record as one LZ4 block.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress inflates an LZ4 block.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return c.DecompressAppend(nil, data)
}

// DecompressAppend inflates an LZ4 block onto the end of dst.
//
// Returns an error wrapping errs.ErrDecompression if the block is corrupt or
// inflates past 128MiB.
func (c LZ4Compressor) DecompressAppend(dst, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return dst, nil
	}

	base := len(dst)
	for size := len(data) * 4; size <= maxLZ4Record; size *= 2 {
		out := slices.Grow(dst, size)[:base+size]
		n, err := lz4.UncompressBlock(data, out[base:])
		if err == nil {
			return out[:base+n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return dst, fmt.Errorf("%w: lz4: %w", errs.ErrDecompression, err)
		}
		dst = out[:base]
	}

	return dst, fmt.Errorf("%w: lz4: record larger than %d bytes", errs.ErrDecompression, maxLZ4Record)
}
