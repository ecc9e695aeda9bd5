// Package errs holds the sentinel error values shared across ataf's packages.
//
// Callers compare against these with errors.Is; call sites that need extra
// context wrap them with fmt.Errorf("...: %w", errs.ErrX).
package errs

import "errors"

var (
	// ErrMalformedVarint is returned when a varint's continuation bit never
	// clears within the encoding's width limit, or the input ends mid-varint.
	ErrMalformedVarint = errors.New("ataf: malformed varint")

	// ErrMalformedHeader is returned for a short read of an ArchiveHeader,
	// and for invalid UTF-8, an unrecognized entry type tag, or an
	// unsupported archive version while parsing ArchiveHeader or
	// ArchiveEntryHeader. A short read of an ArchiveEntryHeader is
	// ErrTruncatedEntry.
	ErrMalformedHeader = errors.New("ataf: malformed header")

	// ErrUnsupportedCompression is returned when the archive header names a
	// compression algorithm the reader does not recognize.
	ErrUnsupportedCompression = errors.New("ataf: unsupported compression")

	// ErrTruncatedEntry is returned when end-of-file is hit in the middle of
	// an entry header or its framed chunks, after at least one byte of the
	// next entry's header had already been consumed.
	ErrTruncatedEntry = errors.New("ataf: truncated entry")

	// ErrCodecFailure wraps the error a compression or decompression worker
	// reports.
	ErrCodecFailure = errors.New("ataf: codec failure")

	// ErrWorkerPanicked marks a codec failure caused by a worker goroutine
	// recovering from a panic rather than returning a normal error.
	ErrWorkerPanicked = errors.New("ataf: worker panicked")

	// ErrWriterClosed is returned by Writer.WriteEntry once the writer has
	// been poisoned by a prior error or already closed.
	ErrWriterClosed = errors.New("ataf: writer closed")

	// ErrReaderClosed is returned by EntriesReader.Next and Reader.Header
	// once the reader has been poisoned by a prior error or closed.
	ErrReaderClosed = errors.New("ataf: reader closed")

	// ErrChunkTooLarge is returned when a compressor produces a framed chunk
	// whose length does not fit the 24-bit on-disk length prefix.
	ErrChunkTooLarge = errors.New("ataf: framed chunk exceeds 2^24-1 bytes")

	// ErrInvalidChunkSize is returned when a configured chunk size is below
	// the format's 1024-byte minimum.
	ErrInvalidChunkSize = errors.New("ataf: compression chunk size must be >= 1024")

	// ErrChunkBudgetExceeded is returned when a compressor writes more
	// chunks for an entry than ArchiveEntryHeader.ChunkCount allows.
	ErrChunkBudgetExceeded = errors.New("ataf: compressor exceeded entry's chunk budget")

	// ErrShortEntryInput is returned by Writer.WriteEntry when a compression
	// round consumes no bytes from the entry's source reader despite chunks
	// still remaining in its budget — the source ended before
	// ArchiveEntryHeader.Size bytes were read.
	ErrShortEntryInput = errors.New("ataf: entry input shorter than declared size")
)
