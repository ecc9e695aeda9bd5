package codec

import (
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/ataf/internal/pool"
	"github.com/arloliu/ataf/internal/workerpool"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse; the type
// holds internal hash-table state that benefits from not being
// reallocated per chunk.
var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

// LZ4Codec compresses each chunk independently with LZ4's block API.
//
// Unlike the reference implementation, which does not know a decompressed
// chunk's size ahead of time and so grows its destination buffer
// adaptively on ErrInvalidSourceShortBuffer, ataf's framed-chunk protocol
// always knows the logical chunk size up front (chunkSize from the
// archive header), so Decompress sizes its destination buffer once and
// never retries.
type LZ4Codec struct {
	threads int
	wp      *workerpool.Pool
}

var _ Codec = (*LZ4Codec)(nil)
var _ Closer = (*LZ4Codec)(nil)

// NewLZ4Codec returns an lz4 codec backed by threads long-lived workers.
func NewLZ4Codec(threads int) *LZ4Codec {
	return &LZ4Codec{threads: threads, wp: workerpool.New(threads)}
}

func (c *LZ4Codec) Name() string { return "lz4" }

// lz4RawFlag / lz4BlockFlag distinguish an incompressible chunk (stored
// verbatim) from an lz4-compressed one. The block API reports a
// compressed length of zero when compression would not shrink the input;
// storing a one-byte tag inside the opaque chunk payload is how this
// codec represents that case without changing the frame format.
const (
	lz4RawFlag   byte = 0
	lz4BlockFlag byte = 1
)

// Compress lz4-compresses up to min(threads, remainingChunks) chunks of
// input in parallel and frames each onto sink in order.
func (c *LZ4Codec) Compress(input ChunkReader, remainingChunks uint64, chunkSize uint32, sink ChunkSink) error {
	return compressRound(input, remainingChunks, chunkSize, sink, c.threads, c.wp, func(data []byte) ([]byte, error) {
		dstSize := lz4.CompressBlockBound(len(data))

		dst, cleanup := pool.GetByteSlice(dstSize)
		defer cleanup()

		lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
		defer lz4CompressorPool.Put(lc)

		n, err := lc.CompressBlock(data, dst)
		if err != nil {
			return nil, err
		}

		if n == 0 {
			out := make([]byte, len(data)+1)
			out[0] = lz4RawFlag
			copy(out[1:], data)

			return out, nil
		}

		out := make([]byte, n+1)
		out[0] = lz4BlockFlag
		copy(out[1:], dst[:n])

		return out, nil
	})
}

// BatchSize matches the round width Compress uses.
func (c *LZ4Codec) BatchSize() int { return c.threads }

// Decompress lz4-decompresses each input chunk in parallel and appends
// the results to output in order.
func (c *LZ4Codec) Decompress(inputs [][]byte, output *pool.ByteBuffer, chunkSize uint32) error {
	return decompressRound(inputs, output, c.wp, func(in []byte) ([]byte, error) {
		if len(in) == 0 {
			return nil, nil
		}

		flag, payload := in[0], in[1:]

		if flag == lz4RawFlag {
			out := make([]byte, len(payload))
			copy(out, payload)

			return out, nil
		}

		dst, cleanup := pool.GetByteSlice(int(chunkSize))
		defer cleanup()

		n, err := lz4.UncompressBlock(payload, dst)
		if err != nil {
			return nil, err
		}

		out := make([]byte, n)
		copy(out, dst[:n])

		return out, nil
	})
}

// Close shuts down the codec's worker pool. The codec must not be used
// afterward.
func (c *LZ4Codec) Close() { c.wp.Close() }
