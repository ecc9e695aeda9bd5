package codec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/ataf/internal/pool"
	"github.com/arloliu/ataf/internal/workerpool"
)

// Flate2Codec compresses each chunk independently with zlib-wrapped
// deflate, matching the reference implementation's flate2::write::ZlibEncoder
// (zlib framing, not raw deflate).
type Flate2Codec struct {
	threads int
	level   int
	wp      *workerpool.Pool
}

var _ Codec = (*Flate2Codec)(nil)
var _ Closer = (*Flate2Codec)(nil)

// NewFlate2Codec returns a flate2 codec backed by threads long-lived
// workers, at zlib's default compression level.
func NewFlate2Codec(threads int) *Flate2Codec {
	return &Flate2Codec{
		threads: threads,
		level:   zlib.DefaultCompression,
		wp:      workerpool.New(threads),
	}
}

func (c *Flate2Codec) Name() string { return "flate2" }

// Compress zlib-compresses up to min(threads, remainingChunks) chunks of
// input in parallel and frames each onto sink in order.
func (c *Flate2Codec) Compress(input ChunkReader, remainingChunks uint64, chunkSize uint32, sink ChunkSink) error {
	return compressRound(input, remainingChunks, chunkSize, sink, c.threads, c.wp, func(data []byte) ([]byte, error) {
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
	})
}

// BatchSize matches the round width Compress uses, so a reader stages
// exactly as many chunks as Decompress can usefully parallelize.
func (c *Flate2Codec) BatchSize() int { return c.threads }

// Decompress zlib-decompresses each input chunk in parallel and appends
// the results to output in order.
func (c *Flate2Codec) Decompress(inputs [][]byte, output *pool.ByteBuffer, _ uint32) error {
	return decompressRound(inputs, output, c.wp, func(in []byte) ([]byte, error) {
		r, err := zlib.NewReader(bytes.NewReader(in))
		if err != nil {
			return nil, err
		}
		defer r.Close()

		return io.ReadAll(r)
	})
}

// Close shuts down the codec's worker pool. The codec must not be used
// afterward.
func (c *Flate2Codec) Close() { c.wp.Close() }
