package compress

// NoOpCompressor passes data through unchanged. It serves records whose
// IsCompressed flag is clear, so the engine can treat every record uniformly.
type NoOpCompressor struct{}

var (
	_ Codec              = (*NoOpCompressor)(nil)
	_ AppendDecompressor = (*NoOpCompressor)(nil)
)

// NewNoOpCompressor creates a new no-operation compressor that bypasses data.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input slice as-is.
//
// Note: The returned slice shares the same underlying memory as the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is.
//
// Note: The returned slice shares the same underlying memory as the input.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// DecompressAppend copies data onto the end of dst.
func (c NoOpCompressor) DecompressAppend(dst, data []byte) ([]byte, error) {
	return append(dst, data...), nil
}
