//go:build !linux && !darwin

package cpio

import (
	"os"
	"time"
)

// This platform has no portable mknod/mkfifo/lchown surface in the standard
// library; archives containing device nodes, FIFOs or sockets fail to
// unpack here rather than silently skipping them.

func mkfifoAt(path string, mode uint32) error {
	return ErrUnsupportedPlatform
}

func mknodAt(path string, ft FileType, mode uint32, rdev uint64) error {
	return ErrUnsupportedPlatform
}

func symlinkAt(target, path string) error {
	return os.Symlink(target, path)
}

func hardLinkAt(original, path string) error {
	return os.Link(original, path)
}

func lchownAt(path string, uid, gid uint32) error {
	return ErrUnsupportedPlatform
}

func setFileModifiedTime(path string, mtime time.Time) error {
	return os.Chtimes(path, mtime, mtime)
}

func bindUnixDatagramSocket(path string) error {
	return ErrUnsupportedPlatform
}

func isPermissionDenied(err error) bool {
	return os.IsPermission(err)
}
