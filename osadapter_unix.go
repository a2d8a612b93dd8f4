//go:build linux || darwin

package cpio

import (
	"net"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// mkfifoAt creates a FIFO at path with the given permission bits.
func mkfifoAt(path string, mode uint32) error {
	return unix.Mkfifo(path, mode)
}

// mknodAt creates a device node at path. ft selects block vs character.
func mknodAt(path string, ft FileType, mode uint32, rdev uint64) error {
	var sysMode uint32
	switch ft {
	case BlockDevice:
		sysMode = mode | unix.S_IFBLK
	case CharDevice:
		sysMode = mode | unix.S_IFCHR
	}
	return unix.Mknod(path, sysMode, int(unix.Mkdev(Major(rdev), Minor(rdev))))
}

// symlinkAt drops a symlink at path pointing at target.
func symlinkAt(target, path string) error {
	return os.Symlink(target, path)
}

// hardLinkAt links path to an already-materialized file at original.
func hardLinkAt(original, path string) error {
	return os.Link(original, path)
}

// lchownAt sets ownership without following a trailing symlink.
func lchownAt(path string, uid, gid uint32) error {
	return unix.Lchown(path, int(uid), int(gid))
}

// setFileModifiedTime sets path's mtime (and leaves atime untouched by
// reusing it), without following symlinks.
func setFileModifiedTime(path string, mtime time.Time) error {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return err
	}
	atime := statAtime(&st)
	return unix.Lutimes(path, []unix.Timeval{
		unix.NsecToTimeval(atime.UnixNano()),
		unix.NsecToTimeval(mtime.UnixNano()),
	})
}

// bindUnixDatagramSocket materializes a socket special file at path by
// binding a Unix datagram socket to it — the portable incantation for
// creating an S_IFSOCK node without root or a kernel module (spec.md §4.5).
func bindUnixDatagramSocket(path string) error {
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: path, Net: "unixgram"})
	if err != nil {
		return err
	}
	return conn.Close()
}

// isPermissionDenied reports whether err is an EACCES/EPERM from a syscall.
func isPermissionDenied(err error) bool {
	return err == syscall.EACCES || err == syscall.EPERM
}
