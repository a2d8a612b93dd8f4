package cpio

import (
	"fmt"
	"io"
)

// remapEntry tracks what a (dev, ino) group has already been assigned
// during write: its short inode id and, for newc/crc, the checksum the
// primary computed so secondaries can reuse it without re-hashing.
type remapEntry struct {
	inode uint32
	check uint32
}

// MetadataEditor may mutate a header immediately before it is encoded,
// after remapping, CRC computation and length checks have run. The default
// is a no-op; this is how a caller implements "zero out uid/gid" or
// "normalize mtime" across an entire archive.
type MetadataEditor func(*Metadata)

// Writer is a streaming cpio archive builder (spec.md §4.6).
type Writer struct {
	w      io.Writer
	format Format
	editor MetadataEditor

	nextInode   uint32
	inodes      map[MetadataID]*remapEntry
	devs        map[uint64]uint16
	nextShortID uint16

	closed bool
}

// WriterOption configures a Writer at construction time.
type WriterOption func(*Writer)

// WithFormat selects the on-disk variant to emit. The default is newc.
func WithFormat(format Format) WriterOption {
	return func(w *Writer) { w.format = format }
}

// WithMetadataEditor installs a callback invoked on every header immediately
// before it is encoded.
func WithMetadataEditor(editor MetadataEditor) WriterOption {
	return func(w *Writer) { w.editor = editor }
}

// NewWriter constructs a Writer over w, defaulting to the newc format.
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	writer := &Writer{
		w:           w,
		format:      Format{Kind: FormatNewc},
		nextInode:   1,
		nextShortID: 1,
		inodes:      make(map[MetadataID]*remapEntry),
		devs:        make(map[uint64]uint16),
	}
	for _, opt := range opts {
		opt(writer)
	}
	return writer
}

// WriteEntry appends one entry: header, name, and (unless it is a hard-link
// secondary on newc/crc) the payload read from data.
func (w *Writer) WriteEntry(metadata Metadata, name string, data io.Reader) error {
	if w.closed {
		return ErrWriterClosed
	}

	nameLen := uint32(len(name) + 1)
	if err := w.checkNameLen(nameLen); err != nil {
		return err
	}

	m := metadata
	m.NameLen = nameLen

	secondary, err := w.remap(&m)
	if err != nil {
		return err
	}

	var payload io.Reader = data
	if w.format.Kind == FormatCrc && !secondary {
		ft, ftErr := m.FileType()
		if ftErr == nil && ft == Regular && m.FileSize > 0 {
			buf := make([]byte, m.FileSize)
			if _, err := io.ReadFull(data, buf); err != nil {
				return fmt.Errorf("%w: short payload for %q: %v", ErrInvalidData, name, err)
			}
			sink := &crcSink{}
			_, _ = sink.Write(buf)
			m.Check = sink.Sum()
			w.inodes[metadata.id()].check = m.Check
			payload = bytesReader(buf)
		}
	}

	if w.editor != nil {
		w.editor(&m)
	}

	if err := writeMetadata(w.w, &m, w.format); err != nil {
		return err
	}
	if err := w.writeName(name); err != nil {
		return err
	}

	if m.FileSize > 0 {
		written, err := io.Copy(w.w, payload)
		if err != nil {
			return err
		}
		if uint64(written) != m.FileSize {
			return fmt.Errorf("%w: wrote %d bytes for %q, header declared %d", ErrInvalidData, written, name, m.FileSize)
		}
		if err := w.writeFilePadding(int(m.FileSize)); err != nil {
			return err
		}
	}
	return nil
}

// remap implements the inode/device remap and hard-link-secondary
// detection of spec.md §4.6 step 1.
func (w *Writer) remap(m *Metadata) (secondary bool, err error) {
	id := m.id()
	entry, seen := w.inodes[id]
	if !seen {
		entry = &remapEntry{inode: w.nextInode}
		w.nextInode++
		w.inodes[id] = entry
	}
	m.Ino = uint64(entry.inode)

	if !w.format.IsNewcLike() {
		for _, dev := range []*uint64{&m.Dev, &m.Rdev} {
			if short, ok := w.devs[*dev]; ok {
				*dev = uint64(short)
				continue
			}
			short := w.nextShortID
			w.nextShortID++
			w.devs[*dev] = short
			*dev = uint64(short)
		}
	}

	if !seen {
		return false, nil
	}

	ft, ftErr := m.FileType()
	if ftErr == nil && ft == Symlink {
		return false, ErrSymlinkHardLink
	}
	if w.format.IsNewcLike() {
		m.FileSize = 0
		m.Check = entry.check
		return true, nil
	}
	return false, nil
}

func (w *Writer) checkNameLen(nameLen uint32) error {
	var max uint32
	switch w.format.Kind {
	case FormatBin:
		max = 0xFFFF
	case FormatOdc:
		max = Max6
	default:
		max = Max8
	}
	if nameLen > max {
		return fmt.Errorf("%w: name_len %d exceeds %v limit", ErrNameTooLong, nameLen, w.format.Kind)
	}
	return nil
}

func (w *Writer) writeName(name string) error {
	if _, err := io.WriteString(w.w, name); err != nil {
		return err
	}
	if _, err := w.w.Write([]byte{0}); err != nil {
		return err
	}
	nameLen := len(name) + 1
	if w.format.IsNewcLike() {
		return WritePadding(w.w, newcAlign, newcHeaderLen+nameLen)
	}
	if w.format.Kind == FormatBin {
		return WritePadding(w.w, binAlign, nameLen)
	}
	return nil
}

func (w *Writer) writeFilePadding(n int) error {
	if w.format.IsNewcLike() {
		return WritePadding(w.w, newcAlign, n)
	}
	if w.format.Kind == FormatBin {
		return WritePadding(w.w, binAlign, n)
	}
	return nil
}

// Finish emits the trailer entry and marks the writer closed. It is safe to
// call exactly once; further WriteEntry calls return ErrWriterClosed.
func (w *Writer) Finish() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true
	var m Metadata
	m.NameLen = uint32(len(trailerName) + 1)
	if err := writeMetadata(w.w, &m, w.format); err != nil {
		return err
	}
	return w.writeName(trailerName)
}

func bytesReader(b []byte) io.Reader {
	return &sliceReader{b: b}
}

type sliceReader struct{ b []byte }

func (s *sliceReader) Read(p []byte) (int, error) {
	if len(s.b) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.b)
	s.b = s.b[n:]
	return n, nil
}
