package codec

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"

	"github.com/arloliu/ataf/internal/pool"
	"github.com/arloliu/ataf/internal/workerpool"
)

// defaultBrotliQuality mirrors the reference implementation's default
// BrotliEncoderParams quality, balancing ratio against throughput for
// archive-sized chunks.
const defaultBrotliQuality = 6

// BrotliCodec compresses each chunk independently with brotli. No
// brotli dependency appears anywhere in the retrieved reference pack;
// andybalholm/brotli is the standard pure-Go brotli implementation and is
// added here specifically to give the archive format's mandatory
// "brotli" compression name a real implementation.
type BrotliCodec struct {
	threads int
	quality int
	wp      *workerpool.Pool
}

var _ Codec = (*BrotliCodec)(nil)
var _ Closer = (*BrotliCodec)(nil)

// NewBrotliCodec returns a brotli codec backed by threads long-lived
// workers.
func NewBrotliCodec(threads int) *BrotliCodec {
	return &BrotliCodec{
		threads: threads,
		quality: defaultBrotliQuality,
		wp:      workerpool.New(threads),
	}
}

func (c *BrotliCodec) Name() string { return "brotli" }

// Compress brotli-compresses up to min(threads, remainingChunks) chunks
// of input in parallel and frames each onto sink in order.
func (c *BrotliCodec) Compress(input ChunkReader, remainingChunks uint64, chunkSize uint32, sink ChunkSink) error {
	return compressRound(input, remainingChunks, chunkSize, sink, c.threads, c.wp, func(data []byte) ([]byte, error) {
		var buf bytes.Buffer

		w := brotli.NewWriterLevel(&buf, c.quality)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}

		if err := w.Close(); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	})
}

// BatchSize matches the round width Compress uses.
func (c *BrotliCodec) BatchSize() int { return c.threads }

// Decompress brotli-decompresses each input chunk in parallel and
// appends the results to output in order.
func (c *BrotliCodec) Decompress(inputs [][]byte, output *pool.ByteBuffer, _ uint32) error {
	return decompressRound(inputs, output, c.wp, func(in []byte) ([]byte, error) {
		return io.ReadAll(brotli.NewReader(bytes.NewReader(in)))
	})
}

// Close shuts down the codec's worker pool. The codec must not be used
// afterward.
func (c *BrotliCodec) Close() { c.wp.Close() }
