// Package spec implements the binary marshal/parse logic for ataf's archive
// header and per-entry header, following the field layout and encoding
// rules of the container format: fixed-width fields are little-endian,
// variable-width fields use the varint package.
package spec

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/arloliu/ataf/endian"
	"github.com/arloliu/ataf/errs"
)

// ArchiveVersion is the only version value this implementation writes or
// accepts on read.
const ArchiveVersion uint32 = 1

// MinCompressionChunkSize is the smallest logical chunk size the format
// allows.
const MinCompressionChunkSize uint32 = 1024

// Recognized compression names. Any other name read from an archive header
// is a fatal ErrUnsupportedCompression.
const (
	CompressionNone   = "none"
	CompressionFlate2 = "flate2"
	CompressionBrotli = "brotli"
	CompressionLZ4    = "lz4"
)

// KnownCompressionNames lists the compression names the reference reader
// recognizes, in the order CLI help text and tests enumerate them.
var KnownCompressionNames = []string{CompressionNone, CompressionFlate2, CompressionBrotli, CompressionLZ4}

// ArchiveHeader is the fixed prelude written once at the start of an
// archive stream.
type ArchiveHeader struct {
	// Version is the container format version; always 1 for streams this
	// package writes.
	Version uint32

	// Compression names the codec used to compress every entry's payload
	// chunks in this archive.
	Compression string

	// CompressionChunkSize is the logical (uncompressed) size of every
	// payload chunk except possibly an entry's last. Must be >= 1024.
	CompressionChunkSize uint32
}

// NewArchiveHeader builds a header for a fresh archive, validating the
// chunk size invariant up front.
func NewArchiveHeader(compression string, chunkSize uint32) (ArchiveHeader, error) {
	if chunkSize < MinCompressionChunkSize {
		return ArchiveHeader{}, errs.ErrInvalidChunkSize
	}

	return ArchiveHeader{
		Version:              ArchiveVersion,
		Compression:          compression,
		CompressionChunkSize: chunkSize,
	}, nil
}

// WriteTo serializes the header to w in field order: version, compression
// name length + bytes, chunk size — all little-endian.
func (h ArchiveHeader) WriteTo(w io.Writer) (int64, error) {
	engine := endian.GetLittleEndianEngine()

	buf := make([]byte, 0, 4+2+len(h.Compression)+4)
	buf = engine.AppendUint32(buf, h.Version)
	buf = engine.AppendUint16(buf, uint16(len(h.Compression)))
	buf = append(buf, h.Compression...)
	buf = engine.AppendUint32(buf, h.CompressionChunkSize)

	n, err := w.Write(buf)

	return int64(n), err
}

// ReadArchiveHeader parses an ArchiveHeader from r.
//
// Any short read is ErrMalformedHeader; a compression name containing
// invalid UTF-8 is likewise ErrMalformedHeader. A version other than
// ArchiveVersion is also ErrMalformedHeader — this implementation defines
// no other version, so there is nothing to stay forward-compatible with.
func ReadArchiveHeader(r *bufio.Reader) (ArchiveHeader, error) {
	engine := endian.GetLittleEndianEngine()

	var fixed [6]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return ArchiveHeader{}, errs.ErrMalformedHeader
	}

	version := engine.Uint32(fixed[0:4])
	if version != ArchiveVersion {
		return ArchiveHeader{}, errs.ErrMalformedHeader
	}

	nameLen := engine.Uint16(fixed[4:6])

	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBytes); err != nil {
		return ArchiveHeader{}, errs.ErrMalformedHeader
	}

	if !utf8.Valid(nameBytes) {
		return ArchiveHeader{}, errs.ErrMalformedHeader
	}

	var chunkSizeBytes [4]byte
	if _, err := io.ReadFull(r, chunkSizeBytes[:]); err != nil {
		return ArchiveHeader{}, errs.ErrMalformedHeader
	}

	return ArchiveHeader{
		Version:              version,
		Compression:          string(nameBytes),
		CompressionChunkSize: engine.Uint32(chunkSizeBytes[:]),
	}, nil
}
