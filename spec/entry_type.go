package spec

import "github.com/arloliu/ataf/errs"

// EntryType identifies the kind of filesystem object an ArchiveEntryHeader
// describes.
type EntryType uint8

const (
	// EntryFile is a regular file; its payload is the file's contents.
	EntryFile EntryType = 0
	// EntryDirectory is a directory; it carries no payload (Size == 0).
	EntryDirectory EntryType = 1
	// EntrySymlinkFile is a symlink whose target is a file; its payload is
	// the UTF-8 bytes of the link target text.
	EntrySymlinkFile EntryType = 2
	// EntrySymlinkDirectory is a symlink whose target is a directory; its
	// payload is the UTF-8 bytes of the link target text.
	EntrySymlinkDirectory EntryType = 3
)

// String implements fmt.Stringer.
func (t EntryType) String() string {
	switch t {
	case EntryFile:
		return "file"
	case EntryDirectory:
		return "directory"
	case EntrySymlinkFile:
		return "symlink-to-file"
	case EntrySymlinkDirectory:
		return "symlink-to-directory"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the four defined entry types.
func (t EntryType) Valid() bool {
	return t <= EntrySymlinkDirectory
}

// parseEntryType validates a raw type byte read off the wire.
func parseEntryType(b byte) (EntryType, error) {
	t := EntryType(b)
	if !t.Valid() {
		return 0, errs.ErrMalformedHeader
	}

	return t, nil
}
