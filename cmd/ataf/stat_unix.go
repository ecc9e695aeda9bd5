//go:build unix

package main

import (
	"io/fs"
	"syscall"
)

// statModeOwner extracts the permission bits and owning uid/gid from info,
// mirroring the original's Unix PermissionsExt/MetadataExt split.
func statModeOwner(info fs.FileInfo) (mode, uid, gid uint32) {
	mode = uint32(info.Mode().Perm())

	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		uid = stat.Uid
		gid = stat.Gid
	}

	return mode, uid, gid
}
