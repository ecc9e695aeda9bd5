package main

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/arloliu/ataf/archive"
	"github.com/arloliu/ataf/spec"
)

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "create an archive from one or more files or directories",
		ArgsUsage: "INPUTS...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "compression",
				Usage: "compression codec: none, flate2, brotli, lz4",
				Value: spec.CompressionNone,
			},
			&cli.IntFlag{
				Name:  "threads",
				Usage: "number of worker goroutines for a parallel codec",
				Value: 1,
			},
			&cli.UintFlag{
				Name:  "chunk-size",
				Usage: "uncompressed bytes per chunk",
				Value: uint(spec.MinCompressionChunkSize) * 64,
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "archive output path (defaults to stdout)",
			},
		},
		Action: runCreate,
	}
}

func runCreate(c *cli.Context) error {
	inputs := c.Args().Slice()
	if len(inputs) == 0 {
		return fmt.Errorf("create: at least one input path is required")
	}

	var out io.Writer = os.Stdout

	if outPath := c.String("output"); outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create: %w", err)
		}
		defer f.Close()

		bw := bufio.NewWriterSize(f, 1024*1024)
		defer bw.Flush()

		out = bw
	}

	fmt.Printf("creating archive with the following options:\n")
	fmt.Printf("compression format: %s\n", c.String("compression"))
	fmt.Printf("number of threads: %d\n", c.Int("threads"))
	fmt.Printf("chunk size: %d\n", c.Uint("chunk-size"))

	w, err := archive.NewWriter(out,
		archive.WithCompression(c.String("compression")),
		archive.WithChunkSize(uint32(c.Uint("chunk-size"))),
		archive.WithWriterThreads(c.Int("threads")),
	)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	for _, input := range inputs {
		root := ""
		if info, statErr := os.Stat(input); statErr == nil && info.IsDir() {
			root = input
		}

		addToArchive(w, input, root)
	}

	return w.Close()
}

// addToArchive walks input (a file, directory, or symlink) and writes one
// entry per filesystem object encountered. Per-object failures are logged
// to stderr and skipped rather than aborting the whole walk, matching how
// a single bad file should not sink an otherwise-good archive.
func addToArchive(w *archive.Writer, input string, root string) {
	err := filepath.WalkDir(input, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR failed to read %s: %v\n", path, walkErr)

			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		addEntry(w, path, root)

		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR failed to walk %s: %v\n", input, err)
	}
}

func addEntry(w *archive.Writer, path string, root string) {
	info, err := os.Lstat(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR failed to read metadata for %s: %v\n", path, err)

		return
	}

	entryPath := path
	if root != "" {
		if rel, relErr := filepath.Rel(root, path); relErr == nil {
			entryPath = rel
		}
	}
	entryPath = filepath.ToSlash(entryPath)

	mode, uid, gid := statModeOwner(info)
	mtime := info.ModTime().Unix()

	fmt.Printf("adding %s to archive...\n", path)

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		addSymlinkEntry(w, path, entryPath, mode, uid, gid, mtime)
	case info.IsDir():
		header := spec.ArchiveEntryHeader{
			Type: spec.EntryDirectory, Path: entryPath, Mode: mode,
			Uid: uid, Gid: gid, Mtime: mtime, Size: 0,
		}
		if err := w.WriteEntry(header, strings.NewReader("")); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR failed to write directory entry %s: %v\n", path, err)
		}
	default:
		addFileEntry(w, path, entryPath, mode, uid, gid, mtime)
	}
}

func addFileEntry(w *archive.Writer, path, entryPath string, mode, uid, gid uint32, mtime int64) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR failed to open %s: %v\n", path, err)

		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR failed to stat %s: %v\n", path, err)

		return
	}

	header := spec.ArchiveEntryHeader{
		Type: spec.EntryFile, Path: entryPath, Mode: mode,
		Uid: uid, Gid: gid, Mtime: mtime, Size: uint64(info.Size()),
	}

	if err := w.WriteEntry(header, f); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR failed to write file entry %s: %v\n", path, err)
	}
}

func addSymlinkEntry(w *archive.Writer, path, entryPath string, mode, uid, gid uint32, mtime int64) {
	target, err := os.Readlink(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR failed to read symlink %s: %v\n", path, err)

		return
	}

	entryType := spec.EntrySymlinkFile
	if targetInfo, statErr := os.Stat(path); statErr == nil && targetInfo.IsDir() {
		entryType = spec.EntrySymlinkDirectory
	}

	header := spec.ArchiveEntryHeader{
		Type: entryType, Path: entryPath, Mode: mode,
		Uid: uid, Gid: gid, Mtime: mtime, Size: uint64(len(target)),
	}

	if err := w.WriteEntry(header, strings.NewReader(target)); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR failed to write symlink entry %s: %v\n", path, err)
	}
}
