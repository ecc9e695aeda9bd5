//go:build !unix

package main

import "io/fs"

// statModeOwner mirrors the original's Windows fallback: readonly files get
// 0o444, everything else 0o666, and uid/gid are meaningless so both are 0.
func statModeOwner(info fs.FileInfo) (mode, uid, gid uint32) {
	if info.Mode().Perm()&0o200 == 0 {
		return 0o444, 0, 0
	}

	return 0o666, 0, 0
}
