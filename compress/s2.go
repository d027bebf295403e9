package compress

import (
	"fmt"
	"slices"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/simtrace/errs"
)

// S2Compressor reads and writes tick records as S2 blocks.
type S2Compressor struct{}

var (
	_ Codec              = (*S2Compressor)(nil)
	_ AppendDecompressor = (*S2Compressor)(nil)
)

// NewS2Compressor creates a new S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes a tick record as one S2 block.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress inflates an S2 block.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return c.DecompressAppend(nil, data)
}

// DecompressAppend inflates an S2 block onto the end of dst. The block header
// carries the inflated length, so dst grows at most once.
func (c S2Compressor) DecompressAppend(dst, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return dst, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return dst, fmt.Errorf("%w: s2: %w", errs.ErrDecompression, err)
	}

	base := len(dst)
	out := slices.Grow(dst, n)[:base+n]
	if _, err := s2.Decode(out[base:], data); err != nil {
		return dst, fmt.Errorf("%w: s2: %w", errs.ErrDecompression, err)
	}

	return out, nil
}
