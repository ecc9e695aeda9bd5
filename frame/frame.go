// Package frame implements the 3-byte big-endian length-prefixed chunk
// framing used to delimit compressed chunks within an ataf entry's payload.
//
// A framed chunk is written as a 24-bit big-endian length (most significant
// byte first) followed by that many opaque bytes. The length field physically
// bounds a framed chunk to 2^24-1 bytes; WriteChunk rejects anything larger
// before it reaches the wire.
package frame

import (
	"io"

	"github.com/arloliu/ataf/errs"
)

// MaxChunkLength is the largest payload a single framed chunk can carry,
// dictated by the 24-bit on-disk length prefix.
const MaxChunkLength = 1<<24 - 1

// WriteChunk writes one framed chunk (length prefix + data) to w.
//
// Returns errs.ErrChunkTooLarge if len(data) exceeds MaxChunkLength. A
// length of 0 is accepted here — the framing primitive does not enforce
// the container rule against zero-length framed chunks; the codecs uphold
// it by never emitting a chunk for input they did not receive.
func WriteChunk(w io.Writer, data []byte) error {
	if len(data) > MaxChunkLength {
		return errs.ErrChunkTooLarge
	}

	var prefix [3]byte
	lengthToBytes(uint32(len(data)), &prefix)

	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}

	if len(data) == 0 {
		return nil
	}

	_, err := w.Write(data)

	return err
}

// ReadChunk reads one framed chunk's length prefix and data from r.
//
// The returned slice is freshly allocated. Any error reading the prefix or
// the body (including io.EOF on a clean boundary) is returned unwrapped;
// callers translate io.EOF/io.ErrUnexpectedEOF into the appropriate
// container-level error.
func ReadChunk(r io.Reader) ([]byte, error) {
	var prefix [3]byte

	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}

	length := bytesToLength(&prefix)

	data := make([]byte, length)
	if length == 0 {
		return data, nil
	}

	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}

	return data, nil
}

func lengthToBytes(v uint32, out *[3]byte) {
	out[0] = byte(v >> 16)
	out[1] = byte(v >> 8)
	out[2] = byte(v)
}

func bytesToLength(b *[3]byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}
