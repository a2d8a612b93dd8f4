package cpio

import (
	"io/fs"
)

// Mode bit constants shared by every cpio variant's mode field. Kept
// separate from the FileType nibble constants in filetype.go because these
// also cover the permission and set-uid/gid/sticky bits, used when
// synthesizing a Metadata.Mode from a portable fs.FileMode (the stat_other.go
// fallback path, for platforms without a raw syscall.Stat_t).
const (
	sIFMT   = 0xf000
	sIFREG  = 0x8000
	sIFDIR  = 0x4000
	sIFBLK  = 0x6000
	sIFCHR  = 0x2000
	sIFIFO  = 0x1000
	sIFLNK  = 0xa000
	sIFSOCK = 0xc000

	sISVTX = 0x200
	sISGID = 0x400
	sISUID = 0x800
)

// UnixToMode converts a raw cpio/unix mode word into a fs.FileMode.
func UnixToMode(mode uint32) fs.FileMode {
	res := fs.FileMode(mode & 0777)

	switch {
	case mode&sIFMT == sIFCHR:
		res |= fs.ModeCharDevice
	case mode&sIFMT == sIFBLK:
		res |= fs.ModeDevice
	case mode&sIFMT == sIFDIR:
		res |= fs.ModeDir
	case mode&sIFMT == sIFIFO:
		res |= fs.ModeNamedPipe
	case mode&sIFMT == sIFLNK:
		res |= fs.ModeSymlink
	case mode&sIFMT == sIFSOCK:
		res |= fs.ModeSocket
	}

	if mode&sISGID == sISGID {
		res |= fs.ModeSetgid
	}
	if mode&sISUID == sISUID {
		res |= fs.ModeSetuid
	}
	if mode&sISVTX == sISVTX {
		res |= fs.ModeSticky
	}

	return res
}

// ModeToUnix converts a fs.FileMode into the raw mode word a cpio header
// stores, defaulting unrecognized non-regular bits to a regular file.
func ModeToUnix(mode fs.FileMode) uint32 {
	res := uint32(mode.Perm())

	switch {
	case mode&fs.ModeCharDevice == fs.ModeCharDevice:
		res |= sIFCHR
	case mode&fs.ModeDevice == fs.ModeDevice:
		res |= sIFBLK
	case mode&fs.ModeDir == fs.ModeDir:
		res |= sIFDIR
	case mode&fs.ModeNamedPipe == fs.ModeNamedPipe:
		res |= sIFIFO
	case mode&fs.ModeSymlink == fs.ModeSymlink:
		res |= sIFLNK
	case mode&fs.ModeSocket == fs.ModeSocket:
		res |= sIFSOCK
	default:
		res |= sIFREG
	}

	if mode&fs.ModeSetgid == fs.ModeSetgid {
		res |= sISGID
	}
	if mode&fs.ModeSetuid == fs.ModeSetuid {
		res |= sISUID
	}
	if mode&fs.ModeSticky == fs.ModeSticky {
		res |= sISVTX
	}

	return res
}
