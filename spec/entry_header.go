package spec

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/arloliu/ataf/endian"
	"github.com/arloliu/ataf/errs"
	"github.com/arloliu/ataf/varint"
)

// ArchiveEntryHeader precedes every entry's payload in the stream.
type ArchiveEntryHeader struct {
	// Type identifies the filesystem object kind.
	Type EntryType

	// Path is the entry's path, stored verbatim. Interpretation (absolute
	// vs. relative, normalization, separator) is left to the extractor.
	Path string

	// Mode holds the Unix permission bits; the archive stores but does not
	// interpret them.
	Mode uint32

	// Uid and Gid are the owning user/group IDs.
	Uid uint32
	Gid uint32

	// Mtime is the modification time, seconds since the Unix epoch.
	Mtime int64

	// Size is the logical payload size in bytes. Zero for directories; for
	// symlinks it is the UTF-8 byte length of the link target text.
	Size uint64
}

// WriteTo serializes the entry header to w in field order: type, varint
// path length, path bytes, mode (LE), varint uid, varint gid, varint mtime,
// varint size.
func (h ArchiveEntryHeader) WriteTo(w io.Writer) (int64, error) {
	engine := endian.GetLittleEndianEngine()

	buf := make([]byte, 0, 1+10+len(h.Path)+4+5+5+10+10)
	buf = append(buf, byte(h.Type))
	buf = varint.AppendUint64(buf, uint64(len(h.Path)))
	buf = append(buf, h.Path...)
	buf = engine.AppendUint32(buf, h.Mode)
	buf = varint.AppendUint32(buf, h.Uid)
	buf = varint.AppendUint32(buf, h.Gid)
	buf = varint.AppendUint64(buf, uint64(h.Mtime))
	buf = varint.AppendUint64(buf, h.Size)

	n, err := w.Write(buf)

	return int64(n), err
}

// ReadArchiveEntryHeader parses one entry header from r.
//
// A clean end-of-file before any byte is consumed is reported as io.EOF
// unwrapped, so callers can distinguish "no more entries" from a truncated
// header; any other error reading that first byte is returned as is, and
// every other short read or validation failure is errs.ErrMalformedHeader
// or errs.ErrTruncatedEntry.
func ReadArchiveEntryHeader(r *bufio.Reader) (ArchiveEntryHeader, error) {
	typeByte, err := r.ReadByte()
	if err != nil {
		return ArchiveEntryHeader{}, err
	}

	entryType, err := parseEntryType(typeByte)
	if err != nil {
		return ArchiveEntryHeader{}, errs.ErrMalformedHeader
	}

	pathLen, err := varint.ReadUint64(r)
	if err != nil {
		return ArchiveEntryHeader{}, errs.ErrTruncatedEntry
	}

	pathBytes := make([]byte, pathLen)
	if _, err := io.ReadFull(r, pathBytes); err != nil {
		return ArchiveEntryHeader{}, errs.ErrTruncatedEntry
	}

	if !utf8.Valid(pathBytes) {
		return ArchiveEntryHeader{}, errs.ErrMalformedHeader
	}

	var modeBytes [4]byte
	if _, err := io.ReadFull(r, modeBytes[:]); err != nil {
		return ArchiveEntryHeader{}, errs.ErrTruncatedEntry
	}

	uid, err := varint.ReadUint32(r)
	if err != nil {
		return ArchiveEntryHeader{}, errs.ErrTruncatedEntry
	}

	gid, err := varint.ReadUint32(r)
	if err != nil {
		return ArchiveEntryHeader{}, errs.ErrTruncatedEntry
	}

	mtime, err := varint.ReadUint64(r)
	if err != nil {
		return ArchiveEntryHeader{}, errs.ErrTruncatedEntry
	}

	size, err := varint.ReadUint64(r)
	if err != nil {
		return ArchiveEntryHeader{}, errs.ErrTruncatedEntry
	}

	engine := endian.GetLittleEndianEngine()

	return ArchiveEntryHeader{
		Type:  entryType,
		Path:  string(pathBytes),
		Mode:  engine.Uint32(modeBytes[:]),
		Uid:   uid,
		Gid:   gid,
		Mtime: int64(mtime),
		Size:  size,
	}, nil
}

// ChunkCount returns ceil(Size / chunkSize), the number of framed chunks
// this entry's payload occupies.
func (h ArchiveEntryHeader) ChunkCount(chunkSize uint32) uint64 {
	if h.Size == 0 {
		return 0
	}

	cs := uint64(chunkSize)
	count := h.Size / cs
	if h.Size%cs != 0 {
		count++
	}

	return count
}
