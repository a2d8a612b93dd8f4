package cpio

import "fmt"

// FileType is the sum type of the seven file kinds a cpio entry's mode
// nibble can carry.
type FileType uint8

const (
	Fifo        FileType = 0o01
	CharDevice  FileType = 0o02
	Directory   FileType = 0o04
	BlockDevice FileType = 0o06
	Regular     FileType = 0o10
	Symlink     FileType = 0o12
	Socket      FileType = 0o14
)

const fileTypeMask = 0o170000

func (t FileType) String() string {
	switch t {
	case Socket:
		return "socket"
	case Symlink:
		return "symlink"
	case Regular:
		return "regular"
	case BlockDevice:
		return "block device"
	case Directory:
		return "directory"
	case CharDevice:
		return "char device"
	case Fifo:
		return "fifo"
	}
	return fmt.Sprintf("FileType(%#o)", uint8(t))
}

// modeToFileType extracts the 4-bit file-type nibble from a raw mode.
func modeToFileType(mode uint32) uint8 {
	return uint8((mode & fileTypeMask) >> 12)
}

// FileTypeFromMode maps a raw mode to a FileType, failing for any nibble
// outside the seven recognized kinds.
func FileTypeFromMode(mode uint32) (FileType, error) {
	switch t := FileType(modeToFileType(mode)); t {
	case Socket, Symlink, Regular, BlockDevice, Directory, CharDevice, Fifo:
		return t, nil
	default:
		return 0, fmt.Errorf("%w: unknown file type nibble %#o", ErrInvalidData, modeToFileType(mode))
	}
}

func isType(mode uint32, t FileType) bool {
	return modeToFileType(mode) == uint8(t)
}

func IsFile(mode uint32) bool        { return isType(mode, Regular) }
func IsDir(mode uint32) bool         { return isType(mode, Directory) }
func IsSymlink(mode uint32) bool     { return isType(mode, Symlink) }
func IsBlockDevice(mode uint32) bool { return isType(mode, BlockDevice) }
func IsCharDevice(mode uint32) bool  { return isType(mode, CharDevice) }
func IsFifo(mode uint32) bool        { return isType(mode, Fifo) }
func IsSocket(mode uint32) bool      { return isType(mode, Socket) }
