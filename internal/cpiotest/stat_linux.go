//go:build linux

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
		Mode:     st.Mode,
		Uid:      st.Uid,
		Gid:      st.Gid,
		Nlink:    uint32(st.Nlink),
		Rdev:     st.Rdev,
		Mtime:    uint64(st.Mtim.Sec),
		FileSize: uint64(st.Size),
	}, true
}
