//go:build linux

package cpio

import (
	"os"
	"syscall"
)

// metadataFromFileInfo builds a Metadata from a Lstat'd file's raw stat
// buffer, the unix-specific half of append_path (spec.md §4.6).
func metadataFromFileInfo(info os.FileInfo) (Metadata, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return Metadata{}, false
	}
	return Metadata{
		Dev:   uint64(st.Dev),
		Ino:   uint64(st.Ino),
		Mode:  uint32(st.Mode),
		Uid:   st.Uid,
		Gid:   st.Gid,
		Nlink: uint32(st.Nlink),
		Rdev:  uint64(st.Rdev),
		Mtime: uint64(st.Mtim.Sec),
	}, true
}
