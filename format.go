package cpio

import "fmt"

// FormatKind identifies one of the four on-disk cpio variants.
type FormatKind uint8

const (
	FormatBin FormatKind = iota + 1
	FormatOdc
	FormatNewc
	FormatCrc
)

func (k FormatKind) String() string {
	switch k {
	case FormatBin:
		return "bin"
	case FormatOdc:
		return "odc"
	case FormatNewc:
		return "newc"
	case FormatCrc:
		return "crc"
	}
	return fmt.Sprintf("FormatKind(%d)", uint8(k))
}

// ByteOrder selects the endianness of the bin format. It is meaningless for
// the other three variants.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

// Format is the sum type {Bin(endian), Odc, Newc, Crc} from the cpio family.
// Order is only meaningful when Kind is FormatBin.
type Format struct {
	Kind  FormatKind
	Order ByteOrder
}

func (f Format) String() string {
	if f.Kind == FormatBin {
		return fmt.Sprintf("bin-%s", f.Order)
	}
	return f.Kind.String()
}

// IsNewcLike reports whether the format uses the hexadecimal newc/crc
// header layout, 4-byte alignment and on-wire hard-link deduplication.
func (f Format) IsNewcLike() bool {
	return f.Kind == FormatNewc || f.Kind == FormatCrc
}

// NativeByteOrder is the byte order of the running platform. A Format with
// Kind FormatBin and no Order set is little-endian (the zero ByteOrder);
// callers wanting the host order pass this value explicitly.
func NativeByteOrder() ByteOrder {
	return nativeByteOrder
}
