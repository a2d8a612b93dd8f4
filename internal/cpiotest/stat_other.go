//go:build !linux && !darwin

package cpiotest

import "os"

func statMetadata(info os.FileInfo) (Metadata, bool) {
	return Metadata{Nlink: 1, Mtime: uint64(info.ModTime().Unix()), FileSize: uint64(info.Size())}, true
}
