//go:build linux

package cpio

import (
	"time"

	"golang.org/x/sys/unix"
)

// statAtime reads the access time off a Lstat'd unix.Stat_t. Linux's
// unix.Stat_t names this field Atim, unlike Darwin's Atimespec
// (stat_linux.go/stat_darwin.go hit the same divergence for syscall.Stat_t).
func statAtime(st *unix.Stat_t) time.Time {
	return time.Unix(st.Atim.Sec, st.Atim.Nsec)
}
