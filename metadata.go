package cpio

import (
	"bytes"
	"fmt"
	"io"
)

// Metadata is the decoded per-entry header shared by all four cpio
// variants (spec.md §3).
type Metadata struct {
	Dev      uint64
	Ino      uint64
	Mode     uint32
	Uid      uint32
	Gid      uint32
	Nlink    uint32
	Rdev     uint64
	Mtime    uint64
	NameLen  uint32
	FileSize uint64
	Check    uint32
}

// FileType returns the file-type nibble of Mode as a FileType.
func (m *Metadata) FileType() (FileType, error) {
	return FileTypeFromMode(m.Mode)
}

// FileMode returns Mode with the file-type nibble masked out.
func (m *Metadata) FileMode() uint32 {
	return m.Mode & 0o007777
}

func (m *Metadata) id() MetadataID {
	return MetadataID{Dev: m.Dev, Ino: m.Ino}
}

// MetadataID is the (dev, ino) pair identifying a hard-link group.
type MetadataID struct {
	Dev uint64
	Ino uint64
}

const (
	newcHeaderLen = 6 + 13*8
	binMagicValue = 0o070707
	trailerName   = "TRAILER!!!"
)

var (
	odcMagic  = [6]byte{'0', '7', '0', '7', '0', '7'}
	newcMagic = [6]byte{'0', '7', '0', '7', '0', '1'}
	crcMagic  = [6]byte{'0', '7', '0', '7', '0', '2'}
)

func binMagicBytes(order ByteOrder) [2]byte {
	var buf bytes.Buffer
	_ = WriteBinaryU16(&buf, order, binMagicValue)
	var out [2]byte
	copy(out[:], buf.Bytes())
	return out
}

// readMagicAndFormat performs the magic-detection dance from spec.md §4.3.
// It returns io.EOF (not wrapped) when the stream is cleanly exhausted
// before any byte of a header has been read.
func readMagicAndFormat(r io.Reader) (Format, error) {
	var magic [6]byte
	n, err := io.ReadFull(r, magic[:2])
	if n == 0 && err == io.EOF {
		return Format{}, io.EOF
	}
	if err != nil {
		return Format{}, fmt.Errorf("%w: short magic read: %v", ErrInvalidData, err)
	}
	if magic[:2] == binMagicBytes(LittleEndian) {
		return Format{Kind: FormatBin, Order: LittleEndian}, nil
	}
	if magic[:2] == binMagicBytes(BigEndian) {
		return Format{Kind: FormatBin, Order: BigEndian}, nil
	}
	if _, err := io.ReadFull(r, magic[2:]); err != nil {
		return Format{}, fmt.Errorf("%w: short magic read: %v", ErrInvalidData, err)
	}
	switch magic {
	case odcMagic:
		return Format{Kind: FormatOdc}, nil
	case newcMagic:
		return Format{Kind: FormatNewc}, nil
	case crcMagic:
		return Format{Kind: FormatCrc}, nil
	default:
		return Format{}, fmt.Errorf("%w: unrecognized cpio magic %q", ErrInvalidData, magic[:])
	}
}

// readMetadata decodes the next header from r, or returns io.EOF at a clean
// end of stream.
func readMetadata(r io.Reader) (Metadata, Format, error) {
	format, err := readMagicAndFormat(r)
	if err != nil {
		return Metadata{}, Format{}, err
	}
	var m Metadata
	switch format.Kind {
	case FormatBin:
		m, err = readBinBody(r, format.Order)
	case FormatOdc:
		m, err = readOdcBody(r)
	case FormatNewc, FormatCrc:
		m, err = readNewcBody(r)
	}
	if err != nil {
		return Metadata{}, Format{}, err
	}
	return m, format, nil
}

// writeMetadata encodes m in the given format.
func writeMetadata(w io.Writer, m *Metadata, format Format) error {
	switch format.Kind {
	case FormatBin:
		return writeBinBody(w, m, format.Order)
	case FormatOdc:
		return writeOdcBody(w, m)
	case FormatNewc:
		return writeNewcBody(w, m, newcMagic)
	case FormatCrc:
		return writeNewcBody(w, m, crcMagic)
	default:
		return fmt.Errorf("%w: unknown format kind %v", ErrInvalidData, format.Kind)
	}
}

func zeroOnOverflow64(v, max uint64) uint64 {
	if v > max {
		return 0
	}
	return v
}

// --- odc ---
// dev6 ino6 mode6 uid6 gid6 nlink6 rdev6 mtime11 namelen6 filesize11

func readOdcBody(r io.Reader) (Metadata, error) {
	var m Metadata
	var err error
	if m.Dev, err = read6(r); err != nil {
		return m, err
	}
	if m.Ino, err = read6(r); err != nil {
		return m, err
	}
	var v uint32
	if v, err = ReadOctal6(r); err != nil {
		return m, err
	}
	m.Mode = v
	if v, err = ReadOctal6(r); err != nil {
		return m, err
	}
	m.Uid = v
	if v, err = ReadOctal6(r); err != nil {
		return m, err
	}
	m.Gid = v
	if v, err = ReadOctal6(r); err != nil {
		return m, err
	}
	m.Nlink = v
	if m.Rdev, err = read6(r); err != nil {
		return m, err
	}
	if m.Mtime, err = ReadOctal11(r); err != nil {
		return m, err
	}
	if v, err = ReadOctal6(r); err != nil {
		return m, err
	}
	m.NameLen = v
	if m.FileSize, err = ReadOctal11(r); err != nil {
		return m, err
	}
	return m, nil
}

func read6(r io.Reader) (uint64, error) {
	v, err := ReadOctal6(r)
	return uint64(v), err
}

func writeOdcBody(w io.Writer, m *Metadata) error {
	if _, err := w.Write(odcMagic[:]); err != nil {
		return err
	}
	for _, f := range [...]struct {
		name string
		v    uint64
	}{{"dev", m.Dev}, {"ino", m.Ino}, {"rdev", m.Rdev}} {
		if f.v > uint64(Max6) {
			return fmt.Errorf("%w: odc %s %d does not fit 6 octal digits", ErrInvalidData, f.name, f.v)
		}
	}
	if err := WriteOctal6(w, uint32(m.Dev)); err != nil {
		return err
	}
	if err := WriteOctal6(w, uint32(m.Ino)); err != nil {
		return err
	}
	if err := WriteOctal6(w, m.Mode); err != nil {
		return err
	}
	if err := WriteOctal6(w, m.Uid); err != nil {
		return err
	}
	if err := WriteOctal6(w, m.Gid); err != nil {
		return err
	}
	if err := WriteOctal6(w, m.Nlink); err != nil {
		return err
	}
	if err := WriteOctal6(w, uint32(m.Rdev)); err != nil {
		return err
	}
	if err := WriteOctal11(w, zeroOnOverflow64(m.Mtime, Max11)); err != nil {
		return err
	}
	if err := WriteOctal6(w, m.NameLen); err != nil {
		return err
	}
	return WriteOctal11(w, m.FileSize)
}

// --- newc / crc ---
// ino8 mode8 uid8 gid8 nlink8 mtime8 filesize8 devmaj8 devmin8 rdevmaj8 rdevmin8 namelen8 check8

func readNewcBody(r io.Reader) (Metadata, error) {
	var m Metadata
	vals := make([]uint32, 13)
	for i := range vals {
		v, err := ReadHex8(r)
		if err != nil {
			return m, err
		}
		vals[i] = v
	}
	m.Ino = uint64(vals[0])
	m.Mode = vals[1]
	m.Uid = vals[2]
	m.Gid = vals[3]
	m.Nlink = vals[4]
	m.Mtime = uint64(vals[5])
	m.FileSize = uint64(vals[6])
	m.Dev = Makedev(vals[7], vals[8])
	m.Rdev = Makedev(vals[9], vals[10])
	m.NameLen = vals[11]
	m.Check = vals[12]
	return m, nil
}

func writeNewcBody(w io.Writer, m *Metadata, magic [6]byte) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if m.Ino > uint64(Max8) {
		return fmt.Errorf("%w: newc ino %d does not fit 8 hex digits", ErrInvalidData, m.Ino)
	}
	if m.FileSize > uint64(Max8) {
		return fmt.Errorf("%w: newc file size %d does not fit 8 hex digits", ErrInvalidData, m.FileSize)
	}
	vals := []uint32{
		uint32(m.Ino), m.Mode, m.Uid, m.Gid, m.Nlink,
		uint32(zeroOnOverflow64(m.Mtime, uint64(Max8))),
		uint32(m.FileSize),
		Major(m.Dev), Minor(m.Dev),
		Major(m.Rdev), Minor(m.Rdev),
		m.NameLen, m.Check,
	}
	for _, v := range vals {
		if err := WriteHex8(w, v); err != nil {
			return err
		}
	}
	return nil
}

// --- bin ---
// dev16 ino16 mode16 uid16 gid16 nlink16 rdev16 mtime32 namelen16 filesize32

func readBinBody(r io.Reader, order ByteOrder) (Metadata, error) {
	var m Metadata
	dev, err := ReadBinaryU16(r, order)
	if err != nil {
		return m, err
	}
	ino, err := ReadBinaryU16(r, order)
	if err != nil {
		return m, err
	}
	mode, err := ReadBinaryU16(r, order)
	if err != nil {
		return m, err
	}
	uid, err := ReadBinaryU16(r, order)
	if err != nil {
		return m, err
	}
	gid, err := ReadBinaryU16(r, order)
	if err != nil {
		return m, err
	}
	nlink, err := ReadBinaryU16(r, order)
	if err != nil {
		return m, err
	}
	rdev, err := ReadBinaryU16(r, order)
	if err != nil {
		return m, err
	}
	mtime, err := ReadBinaryU32(r, order)
	if err != nil {
		return m, err
	}
	nameLen, err := ReadBinaryU16(r, order)
	if err != nil {
		return m, err
	}
	fileSize, err := ReadBinaryU32(r, order)
	if err != nil {
		return m, err
	}
	m.Dev = dev16ToDev64(dev)
	m.Ino = uint64(ino)
	m.Mode = uint32(mode)
	m.Uid = uint32(uid)
	m.Gid = uint32(gid)
	m.Nlink = uint32(nlink)
	m.Rdev = dev16ToDev64(rdev)
	m.Mtime = uint64(mtime)
	m.NameLen = uint32(nameLen)
	m.FileSize = uint64(fileSize)
	return m, nil
}

func writeBinBody(w io.Writer, m *Metadata, order ByteOrder) error {
	magic := binMagicBytes(order)
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	dev, err := dev16(m.Dev)
	if err != nil {
		return fmt.Errorf("%w: bin dev does not fit 8+8 bits", err)
	}
	rdev, err := dev16(m.Rdev)
	if err != nil {
		return fmt.Errorf("%w: bin rdev does not fit 8+8 bits", err)
	}
	if m.Ino > 0xFFFF || m.Mode > 0xFFFF || m.Uid > 0xFFFF || m.Gid > 0xFFFF ||
		m.Nlink > 0xFFFF || m.NameLen > 0xFFFF {
		return fmt.Errorf("%w: bin 16-bit field overflow", ErrInvalidData)
	}
	if m.FileSize > uint64(Max8) {
		return fmt.Errorf("%w: bin file size overflow", ErrInvalidData)
	}
	if err := WriteBinaryU16(w, order, dev); err != nil {
		return err
	}
	if err := WriteBinaryU16(w, order, uint16(m.Ino)); err != nil {
		return err
	}
	if err := WriteBinaryU16(w, order, uint16(m.Mode)); err != nil {
		return err
	}
	if err := WriteBinaryU16(w, order, uint16(m.Uid)); err != nil {
		return err
	}
	if err := WriteBinaryU16(w, order, uint16(m.Gid)); err != nil {
		return err
	}
	if err := WriteBinaryU16(w, order, uint16(m.Nlink)); err != nil {
		return err
	}
	if err := WriteBinaryU16(w, order, rdev); err != nil {
		return err
	}
	if err := WriteBinaryU32(w, order, uint32(zeroOnOverflow64(m.Mtime, 0xFFFFFFFF))); err != nil {
		return err
	}
	if err := WriteBinaryU16(w, order, uint16(m.NameLen)); err != nil {
		return err
	}
	return WriteBinaryU32(w, order, uint32(m.FileSize))
}
