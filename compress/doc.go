// Package compress provides the codecs used to inflate trace record blobs.
//
// The simulator writes one CollectionRecords row per tick. When the row's
// IsCompressed flag is set, the whole multiplexed blob was compressed as a single
// unit before it was stored, so the reader must inflate it before any element
// record inside can be located.
//
// # Supported Algorithms
//
//   - Zlib (format.CompressionZlib): the simulator's default record codec
//   - Zstd (format.CompressionZstd): pooled klauspost/compress decoders
//   - S2 (format.CompressionS2): klauspost/compress block format
//   - LZ4 (format.CompressionLZ4): pierrec/lz4 block format
//   - None (format.CompressionNone): pass-through for uncompressed rows
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZlib)
//	if err != nil {
//	    return err
//	}
//	blob, err := codec.Decompress(row.Data)
//	if errors.Is(err, errs.ErrDecompression) {
//	    // malformed row, the query is aborted
//	}
//
// Every Decompress failure wraps errs.ErrDecompression so the query engine can
// report it uniformly whatever codec the trace used.
//
// # Thread Safety
//
// The built-in codecs are stateless values backed by sync.Pool'd encoders and
// decoders, and are safe for concurrent use by multiple queries.
package compress
