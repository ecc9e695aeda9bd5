// Package codec implements the pluggable compression codecs named in an
// archive header: "none", "flate2", "brotli", and "lz4". Every codec
// compresses and decompresses a stream of fixed-size logical chunks
// independently — chunk k never depends on chunk k-1 or its compressed
// bytes — which is what lets the parallel implementations fan work out to
// a worker pool and still guarantee chunk k is framed to the wire before
// chunk k+1 regardless of which worker finishes first.
package codec

import (
	"fmt"

	"github.com/arloliu/ataf/errs"
	"github.com/arloliu/ataf/internal/pool"
)

// ChunkSink receives a Compressor's compressed output, one chunk at a
// time, in order. Implementations (archive.Writer's per-entry sink in practice) frame each
// chunk onto the wire and track how many more chunks the current entry is
// owed.
type ChunkSink interface {
	WriteChunk(chunk []byte) error
}

// Compressor turns a run of fixed-size logical chunks read from input
// into framed compressed chunks written to sink.
//
// One call to Compress may consume and emit more than one chunk — callers
// drive it in a loop until the entry's full logical size has been
// consumed. remainingChunks bounds how many chunks this entry still owes
// overall, letting a parallel implementation size its round no wider than
// what is left. chunkSize is the logical (uncompressed) size of every
// chunk except possibly input's final, shorter one.
type Compressor interface {
	// Name is the compression name this codec writes into the archive
	// header.
	Name() string

	// Compress reads from input and writes one or more framed, compressed
	// chunks to sink.
	Compress(input ChunkReader, remainingChunks uint64, chunkSize uint32, sink ChunkSink) error
}

// ChunkReader is the minimal read surface a Compressor needs from an
// entry's payload source.
type ChunkReader interface {
	Read(p []byte) (int, error)
}

// Decompressor turns a batch of compressed chunks back into their
// concatenated logical bytes.
type Decompressor interface {
	// BatchSize is how many compressed chunks a single Decompress call
	// wants staged at once; callers should read up to this many framed
	// chunks before calling Decompress. A value of 1 means the codec
	// decompresses strictly one chunk per call.
	BatchSize() int

	// Decompress decompresses each element of inputs, in order, and
	// appends the concatenated logical bytes to output. chunkSize is the
	// logical size of every non-final chunk, used to size scratch
	// buffers; it is an upper bound on the size any single input
	// decompresses to.
	Decompress(inputs [][]byte, output *pool.ByteBuffer, chunkSize uint32) error
}

// Codec pairs a Compressor and Decompressor sharing the same wire name.
type Codec interface {
	Compressor
	Decompressor
}

// Closer is implemented by codecs backed by a long-lived worker pool.
// Callers that construct a codec via New should type-assert for Closer
// and call Close once done with it to stop its goroutines.
type Closer interface {
	Close()
}

// New constructs the codec registered under name, configured to use up to
// threads goroutines for the codecs that parallelize (flate2, brotli,
// lz4). threads < 1 is coerced to 1. "none" ignores threads entirely — it
// has no parallel work to do, one chunk per call by construction.
func New(name string, threads int) (Codec, error) {
	if threads < 1 {
		threads = 1
	}

	switch name {
	case "none":
		return NewNoneCodec(), nil
	case "flate2":
		return NewFlate2Codec(threads), nil
	case "brotli":
		return NewBrotliCodec(threads), nil
	case "lz4":
		return NewLZ4Codec(threads), nil
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedCompression, name)
	}
}
