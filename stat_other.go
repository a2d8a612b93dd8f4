//go:build !linux && !darwin

package cpio

import "os"

// metadataFromFileInfo falls back to the portable fs.FileInfo surface on
// platforms without a syscall.Stat_t: no dev/ino/nlink/uid/gid, so every
// file looks like an independent, root-owned inode with one link. Each call
// hands out a fresh inode number so no two files share a (dev, ino) pair.
var fallbackIno uint64

func metadataFromFileInfo(info os.FileInfo) (Metadata, bool) {
	fallbackIno++
	return Metadata{
		Ino:   fallbackIno,
		Mode:  ModeToUnix(info.Mode()),
		Nlink: 1,
		Mtime: uint64(info.ModTime().Unix()),
	}, true
}
