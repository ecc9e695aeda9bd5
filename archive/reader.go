package archive

import (
	"bufio"
	"errors"
	"io"

	"github.com/arloliu/ataf/codec"
	"github.com/arloliu/ataf/errs"
	"github.com/arloliu/ataf/internal/options"
	"github.com/arloliu/ataf/spec"
)

// Reader parses an ataf archive stream lazily: the archive header is not
// read until Header or Entries is first called, and entries are read one
// at a time as the caller drains them.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	r          *bufio.Reader
	threads    int
	header     spec.ArchiveHeader
	headerRead bool
	codec      codec.Codec
	closed     bool // poisoned: rejects further reads, but may still need Close to release the codec
	released   bool // codec resources already released
}

// NewReader wraps r for archive reading. No bytes are consumed until
// Header or Entries is called.
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	cfg := defaultReaderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Reader{r: bufio.NewReader(r), threads: cfg.threads}, nil
}

// Header parses and returns the archive header, reading it from the
// stream on the first call and caching it afterward.
func (rd *Reader) Header() (spec.ArchiveHeader, error) {
	if rd.closed {
		return spec.ArchiveHeader{}, errs.ErrReaderClosed
	}

	if rd.headerRead {
		return rd.header, nil
	}

	header, err := spec.ReadArchiveHeader(rd.r)
	if err != nil {
		rd.closed = true

		return spec.ArchiveHeader{}, err
	}

	c, err := codec.New(header.Compression, rd.threads)
	if err != nil {
		rd.closed = true

		return spec.ArchiveHeader{}, err
	}

	rd.header = header
	rd.codec = c
	rd.headerRead = true

	return rd.header, nil
}

// Entries begins iteration over the archive's entries. It parses the
// archive header first if that has not happened yet — unconditionally,
// so a caller that calls Entries before Header still gets a fully parsed
// header rather than a reader stuck believing there are zero chunks.
func (rd *Reader) Entries() (*EntriesReader, error) {
	if _, err := rd.Header(); err != nil {
		return nil, err
	}

	return &EntriesReader{reader: rd}, nil
}

// Close releases the Reader's codec resources. It does not close the
// underlying io.Reader, which the caller owns. Safe to call after the
// Reader has been poisoned by a stream error — the codec's worker pool
// still needs shutting down in that case.
func (rd *Reader) Close() error {
	rd.closed = true

	if rd.released {
		return nil
	}

	rd.released = true

	if rd.codec != nil {
		if closer, ok := rd.codec.(codec.Closer); ok {
			closer.Close()
		}
	}

	return nil
}

// EntriesReader iterates an archive's entries in stream order.
type EntriesReader struct {
	reader  *Reader
	current *Entry
}

// Next advances to the next entry, discarding any unread payload bytes
// from the previously returned entry first. It returns (nil, nil) at a
// clean end of stream.
//
// Any non-EOF error leaves the stream at an unknown position — a framing
// error or a truncated chunk can land mid-header or mid-payload — so Next
// poisons the underlying Reader on such an error: every subsequent call
// returns errs.ErrReaderClosed rather than risk resynchronizing onto a
// misaligned stream and mistaking it for a clean end of stream.
func (er *EntriesReader) Next() (*Entry, error) {
	if er.reader.closed {
		return nil, errs.ErrReaderClosed
	}

	if er.current != nil {
		if err := er.current.discard(); err != nil {
			er.reader.closed = true

			return nil, err
		}

		er.current = nil
	}

	header, err := spec.ReadArchiveEntryHeader(er.reader.r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		er.reader.closed = true

		return nil, err
	}

	chunkSize := er.reader.header.CompressionChunkSize

	entry := newEntry(header, er.reader.r, er.reader.codec, chunkSize)
	er.current = entry

	return entry, nil
}
