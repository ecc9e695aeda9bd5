// Package ataf provides a streaming archive container format with
// per-chunk, independently compressed payloads.
//
// An ataf archive is a single binary stream: one archive header naming the
// compression codec and chunk size, followed by any number of entries. Each
// entry is a small metadata header (path, type, mode, ownership, mtime,
// size) followed by its payload, split into fixed-size logical chunks and
// framed independently so that a parallel codec can compress or decompress
// many chunks concurrently without needing random access into the stream.
//
// # Core features
//
//   - Varint-encoded metadata fields, little-endian fixed-width integers
//   - Chunk-framed payloads, each chunk compressed independently
//   - Pluggable compression: none, flate2 (zlib), brotli, lz4
//   - Parallel encode/decode via a fixed-size worker pool per codec
//   - Streaming Writer/Reader; entries are produced and consumed in order
//
// # Basic usage
//
// Writing an archive:
//
//	w, _ := archive.NewWriter(out, archive.WithCompression("flate2"), archive.WithWriterThreads(4))
//	w.WriteEntry(spec.ArchiveEntryHeader{Type: spec.EntryFile, Path: "a.txt", Size: uint64(len(data))}, bytes.NewReader(data))
//	w.Close()
//
// Reading one back:
//
//	r, _ := archive.NewReader(in, archive.WithReaderThreads(4))
//	entries, _ := r.Entries()
//	for {
//	    entry, _ := entries.Next()
//	    if entry == nil {
//	        break
//	    }
//	    io.Copy(dst, entry)
//	}
//
// # Package structure
//
// The archive package implements the streaming Writer/Reader pipeline; codec
// implements the pluggable compression codecs; spec implements the on-disk
// header layouts; frame implements chunk length-framing; varint and endian
// implement the low-level integer encodings spec uses.
//
// This package intentionally does not wrap every type from those
// subpackages — spec.ArchiveEntryHeader and the archive package's Writer,
// Reader, and Entry types are used directly.
package ataf

import (
	"github.com/arloliu/ataf/spec"
)

// KnownCompressionNames lists the compression codec names a Writer or
// Reader recognizes: "none", "flate2", "brotli", "lz4".
var KnownCompressionNames = spec.KnownCompressionNames

// DefaultChunkSize is the chunk size archive.NewWriter uses when
// WithChunkSize is not supplied.
const DefaultChunkSize = 1024 * 64
