// Package varint implements the base-128, little-endian, unsigned varint
// encoding used throughout the ataf container format.
//
// Each byte stores 7 bits of the value in its low bits; the high bit (the
// continuation bit) is set on every byte except the last. The value 0
// encodes as the single byte 0x00. Two widths are supported: ReadUint32
// rejects sequences whose accumulated shift would reach 32 without
// terminating, and ReadUint64 rejects at 64; AppendUint32 and AppendUint64
// encode.
package varint

import (
	"io"

	"github.com/arloliu/ataf/errs"
)

// AppendUint32 appends the varint encoding of v to dst and returns the
// extended slice. The encoding uses the minimum number of bytes: no
// trailing zero groups are emitted.
func AppendUint32(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}

	return append(dst, byte(v))
}

// AppendUint64 appends the varint encoding of v to dst and returns the
// extended slice.
func AppendUint64(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}

	return append(dst, byte(v))
}

// ReadUint32 decodes a varint-encoded uint32 from r.
//
// Returns errs.ErrMalformedVarint if the shift would reach 32 before a byte
// without the continuation bit is seen, or if r is exhausted mid-sequence.
func ReadUint32(r io.ByteReader) (uint32, error) {
	var value uint32

	var shift uint

	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && shift > 0 {
				return 0, errs.ErrMalformedVarint
			}

			return 0, err
		}

		value |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return value, nil
		}

		shift += 7
		if shift >= 32 {
			return 0, errs.ErrMalformedVarint
		}
	}
}

// ReadUint64 decodes a varint-encoded uint64 from r.
//
// Returns errs.ErrMalformedVarint if the shift would reach 64 before a byte
// without the continuation bit is seen, or if r is exhausted mid-sequence.
func ReadUint64(r io.ByteReader) (uint64, error) {
	var value uint64

	var shift uint

	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && shift > 0 {
				return 0, errs.ErrMalformedVarint
			}

			return 0, err
		}

		value |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return value, nil
		}

		shift += 7
		if shift >= 64 {
			return 0, errs.ErrMalformedVarint
		}
	}
}
