package cpio

import "unsafe"

// nativeByteOrder mirrors the original source's cfg(target_endian) switch:
// Go has no build-time endianness constant, so it is detected once here.
var nativeByteOrder = detectNativeByteOrder()

func detectNativeByteOrder() ByteOrder {
	var x uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&x))
	if b[0] == 1 {
		return LittleEndian
	}
	return BigEndian
}
