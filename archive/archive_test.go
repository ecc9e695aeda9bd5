package archive

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ataf/errs"
	"github.com/arloliu/ataf/spec"
)

type fixtureEntry struct {
	header  spec.ArchiveEntryHeader
	payload []byte
}

func makeFixtures() []fixtureEntry {
	rng := rand.New(rand.NewSource(1))

	mk := func(path string, size int) fixtureEntry {
		payload := make([]byte, size)
		rng.Read(payload)

		return fixtureEntry{
			header: spec.ArchiveEntryHeader{
				Type: spec.EntryFile, Path: path, Mode: 0o644,
				Uid: 1000, Gid: 1000, Mtime: 1700000000, Size: uint64(size),
			},
			payload: payload,
		}
	}

	return []fixtureEntry{
		mk("empty", 0),
		mk("one-byte", 1),
		mk("exact-chunk", 1024),
		mk("chunk-plus-one", 1025),
		mk("multi-chunk", 1024*5+37),
	}
}

func writeFixtures(t *testing.T, compression string, threads int, fixtures []fixtureEntry) []byte {
	t.Helper()

	var buf bytes.Buffer

	w, err := NewWriter(&buf, WithCompression(compression), WithChunkSize(1024), WithWriterThreads(threads))
	require.NoError(t, err)

	for _, f := range fixtures {
		require.NoError(t, w.WriteEntry(f.header, bytes.NewReader(f.payload)))
	}

	require.NoError(t, w.Close())

	return buf.Bytes()
}

// TestWriteReadRoundTrip verifies every compression codec reproduces
// every fixture entry's header and payload exactly, across a range of
// worker counts.
func TestWriteReadRoundTrip(t *testing.T) {
	fixtures := makeFixtures()

	for _, compression := range []string{"none", "flate2", "brotli", "lz4"} {
		for _, threads := range []int{1, 4} {
			archiveBytes := writeFixtures(t, compression, threads, fixtures)

			r, err := NewReader(bytes.NewReader(archiveBytes), WithReaderThreads(threads))
			require.NoError(t, err)

			header, err := r.Header()
			require.NoError(t, err)
			require.Equal(t, compression, header.Compression)
			require.Equal(t, uint32(1024), header.CompressionChunkSize)

			entries, err := r.Entries()
			require.NoError(t, err)

			for _, want := range fixtures {
				got, err := entries.Next()
				require.NoError(t, err)
				require.NotNil(t, got)
				require.Equal(t, want.header, got.Header())

				payload, err := io.ReadAll(got)
				require.NoError(t, err)
				require.Equal(t, want.payload, payload)
			}

			last, err := entries.Next()
			require.NoError(t, err)
			require.Nil(t, last)

			require.NoError(t, r.Close())
		}
	}
}

// TestAbandonedEntryIsDiscarded verifies a caller can skip an entry's
// payload entirely and still land cleanly on the next entry's header.
func TestAbandonedEntryIsDiscarded(t *testing.T) {
	fixtures := makeFixtures()
	archiveBytes := writeFixtures(t, "flate2", 2, fixtures)

	r, err := NewReader(bytes.NewReader(archiveBytes))
	require.NoError(t, err)

	entries, err := r.Entries()
	require.NoError(t, err)

	for range fixtures {
		entry, err := entries.Next()
		require.NoError(t, err)
		require.NotNil(t, entry)
		// Deliberately never call Read on entry.
	}

	last, err := entries.Next()
	require.NoError(t, err)
	require.Nil(t, last)
}

// TestTruncatedArchiveIsDetected verifies a stream cut mid-chunk surfaces
// an error rather than silently returning a short read.
func TestTruncatedArchiveIsDetected(t *testing.T) {
	fixtures := makeFixtures()[3:4] // "chunk-plus-one", spans two chunks
	archiveBytes := writeFixtures(t, "none", 1, fixtures)

	truncated := archiveBytes[:len(archiveBytes)-3]

	r, err := NewReader(bytes.NewReader(truncated))
	require.NoError(t, err)

	entries, err := r.Entries()
	require.NoError(t, err)

	entry, err := entries.Next()
	require.NoError(t, err)
	require.NotNil(t, entry)

	_, err = io.ReadAll(entry)
	require.Error(t, err)
}

// TestTruncatedArchivePoisonsReader verifies a mid-stream entry error
// poisons the Reader so a subsequent Next call fails fast instead of
// resynchronizing onto the misaligned stream and reporting a spurious
// clean end of stream.
func TestTruncatedArchivePoisonsReader(t *testing.T) {
	fixtures := makeFixtures()[3:4] // "chunk-plus-one", spans two chunks
	archiveBytes := writeFixtures(t, "none", 1, fixtures)

	truncated := archiveBytes[:len(archiveBytes)-3]

	r, err := NewReader(bytes.NewReader(truncated))
	require.NoError(t, err)

	entries, err := r.Entries()
	require.NoError(t, err)

	entry, err := entries.Next()
	require.NoError(t, err)
	require.NotNil(t, entry)

	_, err = entries.Next()
	require.Error(t, err)
	require.NotErrorIs(t, err, errs.ErrReaderClosed)

	_, err = entries.Next()
	require.ErrorIs(t, err, errs.ErrReaderClosed)
}

// TestWriteEntryAfterCloseFails verifies a closed Writer is poisoned.
func TestWriteEntryAfterCloseFails(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, WithCompression("none"), WithChunkSize(1024))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	header := spec.ArchiveEntryHeader{Type: spec.EntryFile, Path: "a", Size: 1}
	err = w.WriteEntry(header, bytes.NewReader([]byte{0}))
	require.ErrorIs(t, err, errs.ErrWriterClosed)
}

// TestWriteEntryShortInputFails verifies a source reader that ends before
// the entry's declared Size fails fast with ErrShortEntryInput instead of
// spinning forever on a compression round that makes no progress.
func TestWriteEntryShortInputFails(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, WithCompression("none"), WithChunkSize(1024))
	require.NoError(t, err)

	// Size is a non-zero multiple of chunkSize, but the reader yields
	// nothing.
	header := spec.ArchiveEntryHeader{Type: spec.EntryFile, Path: "short", Size: 1024}
	err = w.WriteEntry(header, bytes.NewReader(nil))
	require.ErrorIs(t, err, errs.ErrShortEntryInput)
}

// TestEntriesRequiresHeaderFirst verifies calling Entries before Header
// still parses the header rather than assuming zero chunks — resolving
// the "header read before Entries" open question.
func TestEntriesRequiresHeaderFirst(t *testing.T) {
	fixtures := makeFixtures()[:1]
	archiveBytes := writeFixtures(t, "none", 1, fixtures)

	r, err := NewReader(bytes.NewReader(archiveBytes))
	require.NoError(t, err)

	entries, err := r.Entries()
	require.NoError(t, err)

	entry, err := entries.Next()
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, fixtures[0].header, entry.Header())
}

// TestRejectsUnsupportedCompressionName verifies a header naming an
// unknown codec fails fast rather than silently falling back to "none".
func TestRejectsUnsupportedCompressionName(t *testing.T) {
	var buf bytes.Buffer

	header, err := spec.NewArchiveHeader("zstd", 1024)
	require.NoError(t, err)
	_, err = header.WriteTo(&buf)
	require.NoError(t, err)

	r, err := NewReader(&buf)
	require.NoError(t, err)

	_, err = r.Header()
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}
