package codec

import (
	"io"

	"github.com/arloliu/ataf/internal/pool"
	"github.com/arloliu/ataf/internal/workerpool"
)

// compressRound drives one parallel compression round shared by the
// flate2, brotli, and lz4 codecs: read up to min(threads, remainingChunks)
// logical chunks from input, hand each to compressOne concurrently via
// wp, then frame the results onto sink in chunk order.
//
// The original reference implementation fills its per-round buffers with
// a single vectored read (readv) across all of them at once; Go's
// io.Reader has no portable equivalent for an arbitrary reader, so each
// buffer is filled with its own io.ReadFull. The distribution of bytes
// across buffers, and therefore the chunk boundaries, is identical either
// way for a blocking reader — the vectoring was a syscall-count
// optimization, not a semantic requirement.
func compressRound(
	input ChunkReader,
	remainingChunks uint64,
	chunkSize uint32,
	sink ChunkSink,
	threads int,
	wp *workerpool.Pool,
	compressOne func([]byte) ([]byte, error),
) error {
	width := threads
	if uint64(width) > remainingChunks {
		width = int(remainingChunks)
	}

	if width < 1 {
		width = 1
	}

	bufs := make([][]byte, width)
	cleanups := make([]func(), width)

	defer func() {
		for _, c := range cleanups {
			if c != nil {
				c()
			}
		}
	}()

	chunksWithData := 0

	for i := 0; i < width; i++ {
		buf, cleanup := pool.GetByteSlice(int(chunkSize))
		cleanups[i] = cleanup

		n, err := io.ReadFull(input, buf)
		if n > 0 {
			bufs[i] = buf[:n]
			chunksWithData++
		}

		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}

			return err
		}
	}

	if chunksWithData == 0 {
		return nil
	}

	results := make([][]byte, chunksWithData)
	jobs := make([]func() error, chunksWithData)

	for i := 0; i < chunksWithData; i++ {
		i := i
		jobs[i] = func() error {
			out, err := compressOne(bufs[i])
			if err != nil {
				return err
			}

			results[i] = out

			return nil
		}
	}

	if err := wp.Run(jobs); err != nil {
		return err
	}

	for _, out := range results {
		if err := sink.WriteChunk(out); err != nil {
			return err
		}
	}

	return nil
}

// decompressRound runs decompressOne over every element of inputs
// concurrently via wp, then appends the results to output in the original
// input order — the read-side mirror of compressRound's ordering
// guarantee.
func decompressRound(
	inputs [][]byte,
	output *pool.ByteBuffer,
	wp *workerpool.Pool,
	decompressOne func(in []byte) ([]byte, error),
) error {
	if len(inputs) == 0 {
		return nil
	}

	results := make([][]byte, len(inputs))
	jobs := make([]func() error, len(inputs))

	for i := range inputs {
		i := i
		jobs[i] = func() error {
			out, err := decompressOne(inputs[i])
			if err != nil {
				return err
			}

			results[i] = out

			return nil
		}
	}

	if err := wp.Run(jobs); err != nil {
		return err
	}

	for _, out := range results {
		output.MustWrite(out)
	}

	return nil
}
