package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ataf/errs"
)

// TestWriteChunkLayout verifies a 3-byte payload is framed as a 24-bit
// big-endian length of 3 followed by the literal bytes.
func TestWriteChunkLayout(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteChunk(&buf, []byte("xyz")))
	require.Equal(t, []byte{0x00, 0x00, 0x03, 'x', 'y', 'z'}, buf.Bytes())
}

// TestRoundTrip verifies WriteChunk/ReadChunk round-trip arbitrary payloads.
func TestRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		[]byte("a"),
		bytes.Repeat([]byte{0xAB}, 1024),
		bytes.Repeat([]byte{0x00}, 1<<16+1),
	}

	for _, payload := range payloads {
		var buf bytes.Buffer
		require.NoError(t, WriteChunk(&buf, payload))

		got, err := ReadChunk(&buf)
		require.NoError(t, err)
		require.Equal(t, payload, got)
	}
}

// TestWriteChunkRejectsOversize verifies a chunk whose length would not fit
// in 24 bits is rejected before any bytes reach the writer.
func TestWriteChunkRejectsOversize(t *testing.T) {
	var buf bytes.Buffer

	err := WriteChunk(&buf, make([]byte, MaxChunkLength+1))
	require.ErrorIs(t, err, errs.ErrChunkTooLarge)
	require.Zero(t, buf.Len())
}

// TestReadChunkShortPrefix verifies a truncated length prefix surfaces an
// error rather than a spurious zero-length chunk.
func TestReadChunkShortPrefix(t *testing.T) {
	_, err := ReadChunk(bytes.NewReader([]byte{0x00, 0x01}))
	require.Error(t, err)
}

// TestReadChunkShortBody verifies a length prefix promising more bytes than
// are actually present surfaces an error.
func TestReadChunkShortBody(t *testing.T) {
	_, err := ReadChunk(bytes.NewReader([]byte{0x00, 0x00, 0x05, 'a', 'b'}))
	require.Error(t, err)
}
