package archive

import (
	"runtime"

	"github.com/arloliu/ataf/internal/options"
	"github.com/arloliu/ataf/spec"
)

type writerConfig struct {
	compression string
	chunkSize   uint32
	threads     int
}

func defaultWriterConfig() *writerConfig {
	return &writerConfig{
		compression: spec.CompressionNone,
		chunkSize:   1024 * 64,
		threads:     runtime.GOMAXPROCS(0),
	}
}

// WriterOption configures a Writer built by NewWriter.
type WriterOption = options.Option[*writerConfig]

// WithCompression selects the compression codec a Writer's archive header
// declares and every entry is compressed with. One of "none", "flate2",
// "brotli", "lz4".
func WithCompression(name string) WriterOption {
	return options.NoError(func(c *writerConfig) { c.compression = name })
}

// WithChunkSize sets the logical (uncompressed) size of every chunk
// except possibly an entry's last. Must be >= 1024; NewWriter validates
// this.
func WithChunkSize(size uint32) WriterOption {
	return options.NoError(func(c *writerConfig) { c.chunkSize = size })
}

// WithWriterThreads bounds how many goroutines a parallel codec uses to
// compress each round of chunks. Values below 1 are coerced to 1.
func WithWriterThreads(n int) WriterOption {
	return options.NoError(func(c *writerConfig) { c.threads = n })
}

type readerConfig struct {
	threads int
}

func defaultReaderConfig() *readerConfig {
	return &readerConfig{threads: runtime.GOMAXPROCS(0)}
}

// ReaderOption configures a Reader built by NewReader.
type ReaderOption = options.Option[*readerConfig]

// WithReaderThreads bounds how many goroutines a parallel codec uses to
// decompress each batch of chunks. Values below 1 are coerced to 1.
func WithReaderThreads(n int) ReaderOption {
	return options.NoError(func(c *readerConfig) { c.threads = n })
}
