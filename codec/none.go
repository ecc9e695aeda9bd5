package codec

import (
	"io"

	"github.com/arloliu/ataf/internal/pool"
)

// NoneCodec passes payload bytes through unchanged. It emits at most one
// chunk per Compress call (none once input is exhausted) — remainingChunks
// is ignored because a single call never produces more than one chunk,
// unlike the parallel codecs which fan a whole round out in one call.
type NoneCodec struct{}

var _ Codec = NoneCodec{}

// NewNoneCodec returns the identity codec.
func NewNoneCodec() NoneCodec { return NoneCodec{} }

func (NoneCodec) Name() string { return "none" }

// Compress reads up to chunkSize bytes from input and writes them to sink
// as a single framed chunk. If input yields no bytes, nothing is written.
func (NoneCodec) Compress(input ChunkReader, _ uint64, chunkSize uint32, sink ChunkSink) error {
	buf, cleanup := pool.GetByteSlice(int(chunkSize))
	defer cleanup()

	n, err := io.ReadFull(input, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}

	if n == 0 {
		return nil
	}

	return sink.WriteChunk(buf[:n])
}

// BatchSize is 1: there is nothing to batch, each chunk decompresses (i.e.
// copies) independently of the others.
func (NoneCodec) BatchSize() int { return 1 }

// Decompress appends each input chunk to output unchanged.
func (NoneCodec) Decompress(inputs [][]byte, output *pool.ByteBuffer, _ uint32) error {
	for _, in := range inputs {
		output.MustWrite(in)
	}

	return nil
}
