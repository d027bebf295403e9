package compress

import (
	"fmt"

	"github.com/arloliu/simtrace/format"
)

// Compressor compresses a whole tick record blob.
//
// The trace reader never compresses; Compressor exists so that test tooling and
// fixture writers can produce records the same way the simulator does.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor inflates a compressed tick record blob.
//
// Example:
//
//	codec, _ := compress.GetCodec(format.CompressionZlib)
//	blob, err := codec.Decompress(record.Data)
//	if err != nil {
//	    return fmt.Errorf("tick %d: %w", record.Tick, err)
//	}
//
// Thread Safety: all Decompressor implementations in this package are safe for
// concurrent use.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Error conditions:
	//   - Returns an error wrapping errs.ErrDecompression if the input is corrupted
	//     or was produced by a different algorithm
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Decompress(data []byte) ([]byte, error)
}

// AppendDecompressor is implemented by codecs that can inflate into a
// caller-owned buffer. The query engine uses it to reuse one pooled buffer for
// every record of a scan.
type AppendDecompressor interface {
	// DecompressAppend appends the decompressed data to dst and returns the
	// extended slice. dst may be reallocated.
	DecompressAppend(dst, data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, LZ4 or Zlib)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Compressor instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case format.CompressionZlib:
		return NewZlibCompressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
	format.CompressionZlib: NewZlibCompressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
