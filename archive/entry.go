package archive

import (
	"bufio"
	"fmt"
	"io"

	"github.com/arloliu/ataf/codec"
	"github.com/arloliu/ataf/errs"
	"github.com/arloliu/ataf/frame"
	"github.com/arloliu/ataf/internal/pool"
	"github.com/arloliu/ataf/spec"
)

// Entry is one archive member's header plus a streaming io.Reader over
// its decompressed payload.
//
// An Entry becomes invalid once EntriesReader.Next is called again: any
// unread bytes are discarded at that point and the Entry's underlying
// staging buffer is returned to its pool.
type Entry struct {
	header spec.ArchiveEntryHeader

	r     *bufio.Reader
	codec codec.Codec

	chunkSize  uint32
	chunks     uint64
	readChunks uint64
	readBytes  uint64

	staging    *pool.ByteBuffer
	stagingOff int
}

func newEntry(header spec.ArchiveEntryHeader, r *bufio.Reader, c codec.Codec, chunkSize uint32) *Entry {
	return &Entry{
		header:    header,
		r:         r,
		codec:     c,
		chunkSize: chunkSize,
		chunks:    header.ChunkCount(chunkSize),
		staging:   pool.GetStagingBuffer(),
	}
}

// Header returns the entry's parsed metadata.
func (e *Entry) Header() spec.ArchiveEntryHeader { return e.header }

// Read decompresses and returns the entry's payload bytes in order. It
// reads and decompresses one batch of framed chunks at a time — as many
// as the entry's codec's BatchSize reports — staging the surplus for
// subsequent calls.
func (e *Entry) Read(buf []byte) (int, error) {
	if e.header.Size == 0 || e.readBytes >= e.header.Size || e.staging == nil {
		e.release()

		return 0, io.EOF
	}

	if e.stagingOff < e.staging.Len() {
		n := copy(buf, e.staging.Bytes()[e.stagingOff:])
		e.stagingOff += n
		e.readBytes += uint64(n)

		return n, nil
	}

	e.staging.Reset()
	e.stagingOff = 0

	batch := e.codec.BatchSize()
	inputs := make([][]byte, 0, batch)

	for i := 0; i < batch && e.readChunks < e.chunks; i++ {
		chunk, err := frame.ReadChunk(e.r)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", errs.ErrTruncatedEntry, err)
		}

		e.readChunks++
		inputs = append(inputs, chunk)
	}

	if len(inputs) == 0 {
		e.release()

		return 0, io.EOF
	}

	if err := e.codec.Decompress(inputs, e.staging, e.chunkSize); err != nil {
		return 0, err
	}

	return e.Read(buf)
}

// discard drains any unread payload bytes so the stream is left
// positioned at the next entry's header, then releases the staging
// buffer back to its pool.
func (e *Entry) discard() error {
	if e.header.Size == 0 || e.readBytes >= e.header.Size {
		e.release()

		return nil
	}

	_, err := io.Copy(io.Discard, e)
	e.release()

	return err
}

func (e *Entry) release() {
	if e.staging != nil {
		pool.PutStagingBuffer(e.staging)
		e.staging = nil
	}
}
