package pool

import "sync"

// byteSlicePool backs the per-round []byte destination buffers the
// parallel codecs hand to workers: one buffer per chunk slot, reused
// across rounds and across entries.
var byteSlicePool = sync.Pool{
	New: func() any { return &[]byte{} },
}

// GetByteSlice retrieves and resizes a []byte from the pool.
//
// The returned slice has length exactly size. If the pooled slice's
// capacity is insufficient, a new one is allocated. The caller must call
// the returned cleanup function (typically via defer) to return the
// slice to the pool.
//
// Codecs use this for pre-sized worker destination buffers: a
// compressor's logical chunk size, or a decompressor's known chunk
// length from the archive header, are both known before the worker
// runs, so the buffer never needs to grow mid-copy the way a
// general-purpose pool element might.
func GetByteSlice(size int) ([]byte, func()) {
	ptr, _ := byteSlicePool.Get().(*[]byte)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]byte, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { byteSlicePool.Put(ptr) }
}
