package spec

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ataf/errs"
)

// TestArchiveHeaderRoundTrip verifies serialize then deserialize yields a
// bit-identical ArchiveHeader for every recognized compression name.
func TestArchiveHeaderRoundTrip(t *testing.T) {
	for _, name := range KnownCompressionNames {
		header, err := NewArchiveHeader(name, 65536)
		require.NoError(t, err)

		var buf bytes.Buffer
		_, err = header.WriteTo(&buf)
		require.NoError(t, err)

		got, err := ReadArchiveHeader(bufio.NewReader(&buf))
		require.NoError(t, err)
		require.Equal(t, header, got)
	}
}

// TestNewArchiveHeaderRejectsSmallChunkSize verifies the 1024-byte minimum
// chunk size invariant.
func TestNewArchiveHeaderRejectsSmallChunkSize(t *testing.T) {
	_, err := NewArchiveHeader(CompressionNone, 1023)
	require.ErrorIs(t, err, errs.ErrInvalidChunkSize)
}

// TestArchiveHeaderRejectsInvalidUTF8 verifies a non-UTF-8 compression name
// on the wire fails to parse.
func TestArchiveHeaderRejectsInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x01, 0x00, 0x00, 0x00}) // version
	buf.Write([]byte{0x01, 0x00})              // name length = 1
	buf.Write([]byte{0xFF})                    // invalid UTF-8 byte
	buf.Write([]byte{0x00, 0x00, 0x01, 0x00})  // chunk size

	_, err := ReadArchiveHeader(bufio.NewReader(&buf))
	require.ErrorIs(t, err, errs.ErrMalformedHeader)
}

// TestArchiveHeaderRejectsUnknownVersion verifies a header naming a
// version other than ArchiveVersion is a fatal parse error.
func TestArchiveHeaderRejectsUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x02, 0x00, 0x00, 0x00}) // version = 2
	buf.Write([]byte{0x00, 0x00})             // name length = 0
	buf.Write([]byte{0x00, 0x00, 0x01, 0x00}) // chunk size

	_, err := ReadArchiveHeader(bufio.NewReader(&buf))
	require.ErrorIs(t, err, errs.ErrMalformedHeader)
}

// TestEntryHeaderRoundTrip verifies serialize then deserialize yields a
// bit-identical ArchiveEntryHeader across all entry types.
func TestEntryHeaderRoundTrip(t *testing.T) {
	headers := []ArchiveEntryHeader{
		{Type: EntryFile, Path: "a", Mode: 0o644, Uid: 1000, Gid: 1000, Mtime: 1700000000, Size: 3},
		{Type: EntryDirectory, Path: "d", Mode: 0o755, Uid: 0, Gid: 0, Mtime: 0, Size: 0},
		{Type: EntrySymlinkFile, Path: "l", Mode: 0o777, Uid: 501, Gid: 20, Mtime: 42, Size: 4},
		{Type: EntrySymlinkDirectory, Path: "ld", Mode: 0o777, Uid: 501, Gid: 20, Mtime: 42, Size: 2},
	}

	for _, h := range headers {
		var buf bytes.Buffer
		_, err := h.WriteTo(&buf)
		require.NoError(t, err)

		got, err := ReadArchiveEntryHeader(bufio.NewReader(&buf))
		require.NoError(t, err)
		require.Equal(t, h, got)
	}
}

// TestEntryHeaderS1 verifies a minimal zero-size file entry with path "a"
// serializes to exactly the expected 11 bytes.
func TestEntryHeaderS1(t *testing.T) {
	h := ArchiveEntryHeader{Type: EntryFile, Path: "a", Mode: 0, Uid: 0, Gid: 0, Mtime: 0, Size: 0}

	var buf bytes.Buffer
	_, err := h.WriteTo(&buf)
	require.NoError(t, err)

	expected := []byte{0x00, 0x01, 0x61, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	require.Equal(t, expected, buf.Bytes())
}

// TestReadArchiveEntryHeaderCleanEOF verifies a read attempt at a clean
// entry boundary returns io.EOF, the sole non-error stream terminator.
func TestReadArchiveEntryHeaderCleanEOF(t *testing.T) {
	_, err := ReadArchiveEntryHeader(bufio.NewReader(bytes.NewReader(nil)))
	require.ErrorIs(t, err, io.EOF)
}

// TestReadArchiveEntryHeaderInvalidType verifies an unrecognized type byte
// is a fatal parse error, not silently coerced.
func TestReadArchiveEntryHeaderInvalidType(t *testing.T) {
	_, err := ReadArchiveEntryHeader(bufio.NewReader(bytes.NewReader([]byte{0x07})))
	require.ErrorIs(t, err, errs.ErrMalformedHeader)
}

// TestChunkCount verifies the ceil(size/chunkSize) chunk-boundary law,
// including the S4 scenario (1025 bytes at a 1024 chunk size yields 2).
func TestChunkCount(t *testing.T) {
	cases := []struct {
		size      uint64
		chunkSize uint32
		want      uint64
	}{
		{0, 1024, 0},
		{1024, 1024, 1},
		{1025, 1024, 2},
		{2048, 1024, 2},
		{3 * 1024, 1024, 3},
	}

	for _, c := range cases {
		h := ArchiveEntryHeader{Size: c.size}
		require.Equal(t, c.want, h.ChunkCount(c.chunkSize))
	}
}
