//go:build darwin

package cpiotest

import (
	"os"
	"syscall"
)

func statMetadata(info os.FileInfo) (Metadata, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return Metadata{}, false
	}
	return Metadata{
		Ino:      st.Ino,
		Mode:     uint32(st.Mode),
		Uid:      st.Uid,
		Gid:      st.Gid,
		Nlink:    uint32(st.Nlink),
		Rdev:     uint64(st.Rdev),
		Mtime:    uint64(st.Mtimespec.Sec),
		FileSize: uint64(st.Size),
	}, true
}
