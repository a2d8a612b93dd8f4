//go:build darwin

package cpio

import (
	"time"

	"golang.org/x/sys/unix"
)

// statAtime reads the access time off a Lstat'd unix.Stat_t. Darwin's
// unix.Stat_t names this field Atimespec, unlike Linux's Atim
// (stat_linux.go/stat_darwin.go hit the same divergence for syscall.Stat_t).
func statAtime(st *unix.Stat_t) time.Time {
	return time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec)
}
