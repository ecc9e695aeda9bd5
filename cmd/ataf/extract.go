package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/arloliu/ataf/archive"
	"github.com/arloliu/ataf/spec"
)

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "extract an archive into a directory",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "threads",
				Usage: "number of worker goroutines for a parallel codec",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  "input",
				Usage: "archive input path (defaults to stdin)",
			},
			&cli.StringFlag{
				Name:     "output",
				Usage:    "directory to extract entries into",
				Required: true,
			},
		},
		Action: runExtract,
	}
}

func runExtract(c *cli.Context) error {
	threads := c.Int("threads")
	outputDir := c.String("output")

	var in io.Reader = os.Stdin

	if inPath := c.String("input"); inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return fmt.Errorf("extract: %w", err)
		}
		defer f.Close()

		in = bufio.NewReaderSize(f, 1024*1024)
	}

	fmt.Printf("extracting archive with the following options:\n")
	fmt.Printf("number of threads: %d\n", threads)

	r, err := archive.NewReader(in, archive.WithReaderThreads(threads))
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	defer r.Close()

	entries, err := r.Entries()
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	for {
		entry, err := entries.Next()
		if err != nil {
			return fmt.Errorf("extract: error reading entry: %w", err)
		}
		if entry == nil {
			break
		}

		extractEntry(entry, outputDir)
	}

	return nil
}

// extractEntry recreates one archive member under outputDir. Failures are
// logged to stderr and the loop moves on to the next entry; a bad file or
// permission error should not prevent the rest of the archive from landing.
func extractEntry(entry *archive.Entry, outputDir string) {
	header := entry.Header()

	fmt.Printf("processing: %s, size: %d\n", header.Path, header.Size)

	destination := destinationPath(outputDir, header.Path)

	if parent := filepath.Dir(destination); parent != "" {
		if _, statErr := os.Stat(parent); statErr != nil {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				fmt.Fprintf(os.Stderr, "ERROR error creating parent directory: %v\n", err)
			}
		}
	}

	switch header.Type {
	case spec.EntryFile:
		extractFile(entry, destination, header)
	case spec.EntryDirectory:
		if err := os.MkdirAll(destination, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR error creating directory %s: %v\n", destination, err)
		}
	case spec.EntrySymlinkFile, spec.EntrySymlinkDirectory:
		extractSymlink(entry, destination, header)
	}
}

// destinationPath joins outputDir with header's path, stripping a leading
// root component from an absolute path the way the original strips the
// first path component before joining.
func destinationPath(outputDir, entryPath string) string {
	cleaned := filepath.FromSlash(entryPath)
	if filepath.IsAbs(cleaned) {
		cleaned = strings.TrimPrefix(cleaned, string(filepath.Separator))
	}

	return filepath.Join(outputDir, cleaned)
}

func extractFile(entry *archive.Entry, destination string, header spec.ArchiveEntryHeader) {
	f, err := os.Create(destination)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR error creating file %s: %v\n", destination, err)

		return
	}
	defer f.Close()

	if _, err := io.Copy(f, entry); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR error writing to file %s: %v\n", destination, err)

		return
	}

	mtime := time.Unix(header.Mtime, 0)
	if err := os.Chtimes(destination, mtime, mtime); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR error setting mtime on %s: %v\n", destination, err)
	}

	if err := os.Chmod(destination, os.FileMode(header.Mode)); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR error setting permissions on %s: %v\n", destination, err)
	}
}

func extractSymlink(entry *archive.Entry, destination string, header spec.ArchiveEntryHeader) {
	target, err := io.ReadAll(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR error reading symlink target %s: %v\n", header.Path, err)

		return
	}

	if err := os.Symlink(string(target), destination); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR error creating symlink %s: %v\n", destination, err)
	}
}
