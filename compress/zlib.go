package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/simtrace/errs"
)

// zlibReaderPool pools zlib readers. A pooled reader is rebound to new input
// with zlib.Resetter instead of re-allocating its inflate window.
var zlibReaderPool sync.Pool

// ZlibCompressor provides zlib (deflate) compression, the algorithm the simulator
// uses for CollectionRecords rows flagged IsCompressed.
type ZlibCompressor struct {
	level int
}

var (
	_ Codec              = (*ZlibCompressor)(nil)
	_ AppendDecompressor = (*ZlibCompressor)(nil)
)

// NewZlibCompressor creates a zlib codec using the producer's default level (6).
func NewZlibCompressor() ZlibCompressor {
	return ZlibCompressor{level: 6}
}

// NewZlibCompressorLevel creates a zlib codec with an explicit compression level (0-9).
func NewZlibCompressorLevel(level int) ZlibCompressor {
	return ZlibCompressor{level: level}
}

// Compress compresses the input data using zlib.
func (c ZlibCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress inflates zlib-compressed data.
func (c ZlibCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return c.DecompressAppend(nil, data)
}

// DecompressAppend inflates zlib-compressed data onto the end of dst.
func (c ZlibCompressor) DecompressAppend(dst, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return dst, nil
	}

	src := bytes.NewReader(data)

	var r io.ReadCloser
	if pooled, ok := zlibReaderPool.Get().(io.ReadCloser); ok {
		if err := pooled.(zlib.Resetter).Reset(src, nil); err != nil {
			return dst, fmt.Errorf("%w: zlib: %w", errs.ErrDecompression, err)
		}
		r = pooled
	} else {
		fresh, err := zlib.NewReader(src)
		if err != nil {
			return dst, fmt.Errorf("%w: zlib: %w", errs.ErrDecompression, err)
		}
		r = fresh
	}
	defer zlibReaderPool.Put(r)

	out := bytes.NewBuffer(dst)
	if _, err := out.ReadFrom(r); err != nil {
		return dst, fmt.Errorf("%w: zlib: %w", errs.ErrDecompression, err)
	}

	return out.Bytes(), nil
}
