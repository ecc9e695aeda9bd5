package archive

import (
	"io"

	"github.com/arloliu/ataf/codec"
	"github.com/arloliu/ataf/errs"
	"github.com/arloliu/ataf/frame"
	"github.com/arloliu/ataf/internal/options"
	"github.com/arloliu/ataf/spec"
)

// Writer streams entries onto w as an ataf archive: one ArchiveHeader,
// written once at construction, followed by one ArchiveEntryHeader plus
// its framed, compressed chunks per call to WriteEntry.
//
// A Writer is not safe for concurrent use. Once WriteEntry returns an
// error the Writer is poisoned — every subsequent WriteEntry call returns
// errs.ErrWriterClosed — since a partial entry cannot be safely resumed.
type Writer struct {
	w      io.Writer
	codec  codec.Codec
	header spec.ArchiveHeader
	closed bool
}

// NewWriter builds a Writer, writing the archive header to w immediately.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	cfg := defaultWriterConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	header, err := spec.NewArchiveHeader(cfg.compression, cfg.chunkSize)
	if err != nil {
		return nil, err
	}

	c, err := codec.New(cfg.compression, cfg.threads)
	if err != nil {
		return nil, err
	}

	if _, err := header.WriteTo(w); err != nil {
		return nil, err
	}

	return &Writer{w: w, codec: c, header: header}, nil
}

// WriteEntry writes entry's header followed by its framed, compressed
// payload read from input. input must yield exactly entry.Size bytes;
// fewer bytes is a truncated read, more bytes are never read past the
// entry's chunk budget.
func (wtr *Writer) WriteEntry(entry spec.ArchiveEntryHeader, input io.Reader) error {
	if wtr.closed {
		return errs.ErrWriterClosed
	}

	if _, err := entry.WriteTo(wtr.w); err != nil {
		wtr.closed = true

		return err
	}

	chunkSize := wtr.header.CompressionChunkSize
	sink := &entrySink{w: wtr.w, remaining: entry.ChunkCount(chunkSize)}

	for sink.remaining > 0 {
		before := sink.remaining

		if err := wtr.codec.Compress(input, sink.remaining, chunkSize, sink); err != nil {
			wtr.closed = true

			return err
		}

		if sink.remaining == before {
			// input ended before entry.Size bytes were read: a codec
			// cannot write a chunk it never received data for, so this
			// round makes no progress and would otherwise loop forever.
			wtr.closed = true

			return errs.ErrShortEntryInput
		}
	}

	return nil
}

// Close releases the Writer's codec resources (its worker pool, for
// codecs that use one), including after WriteEntry has poisoned the
// Writer; later calls are no-ops. It does not flush or close the
// underlying io.Writer, which the caller owns.
func (wtr *Writer) Close() error {
	wtr.closed = true

	if wtr.codec == nil {
		return nil
	}

	if closer, ok := wtr.codec.(codec.Closer); ok {
		closer.Close()
	}

	wtr.codec = nil

	return nil
}

// entrySink frames each compressed chunk onto the archive stream and
// enforces that a codec never emits more chunks than an entry's size
// allows for, regardless of how many chunks a single Compress call
// produces.
type entrySink struct {
	w         io.Writer
	remaining uint64
}

func (s *entrySink) WriteChunk(chunk []byte) error {
	if s.remaining == 0 {
		return errs.ErrChunkBudgetExceeded
	}

	if err := frame.WriteChunk(s.w, chunk); err != nil {
		return err
	}

	s.remaining--

	return nil
}
