//go:build linux || darwin

package cpiotest

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// createSpecial materializes the privileged file kinds used by a handful of
// round-trip tests, grounded in the original implementation's use of
// mkfifo/mknod/UnixDatagram::bind (cpio-test/src/file.rs).
func createSpecial(path string, kind Kind) error {
	switch kind {
	case KindFifo:
		return unix.Mkfifo(path, 0o600)
	case KindSocket:
		conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: path, Net: "unixgram"})
		if err != nil {
			return err
		}
		return conn.Close()
	case KindBlockDevice:
		return unix.Mknod(path, 0o600|unix.S_IFBLK, int(unix.Mkdev(7, 0)))
	case KindCharDevice:
		return unix.Mknod(path, 0o600|unix.S_IFCHR, int(unix.Mkdev(1, 3)))
	default:
		return fmt.Errorf("cpiotest: unsupported special kind %d", kind)
	}
}
