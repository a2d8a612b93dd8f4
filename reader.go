package cpio

import (
	"bytes"
	"fmt"
	"io"
)

// Reader is a streaming iterator over the entries of a cpio archive
// (spec.md §4.5, the archive-reader component). It is a single-threaded
// state machine: at most one Entry is live at a time, and that Entry holds
// an exclusive view of the underlying stream until it is closed.
type Reader struct {
	r io.Reader

	preserveMtime bool
	preserveOwner bool
	verifyCRC     bool

	contents map[MetadataID][]byte
	current  *Entry
	finished bool
}

// ReaderOption configures a Reader at construction time.
type ReaderOption func(*Reader)

// WithPreserveMtime makes Unpack apply each entry's stored modification
// time to the materialized file.
func WithPreserveMtime(v bool) ReaderOption {
	return func(r *Reader) { r.preserveMtime = v }
}

// WithPreserveOwner makes Unpack apply each entry's uid/gid via lchown.
func WithPreserveOwner(v bool) ReaderOption {
	return func(r *Reader) { r.preserveOwner = v }
}

// WithVerifyCRC makes the reader verify a crc-format regular file's stored
// checksum against its decoded payload, failing the entry read on mismatch.
func WithVerifyCRC(v bool) ReaderOption {
	return func(r *Reader) { r.verifyCRC = v }
}

// NewReader constructs a Reader over r. All options default to off.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	reader := &Reader{r: r, contents: make(map[MetadataID][]byte)}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// Next decodes and returns the next entry, closing the previous one first
// if the caller did not. It returns io.EOF once the trailer entry (or a
// clean end of stream) has been reached; subsequent calls keep returning
// io.EOF.
func (r *Reader) Next() (*Entry, error) {
	if r.current != nil {
		if err := r.current.Close(); err != nil {
			return nil, err
		}
	}
	if r.finished {
		return nil, io.EOF
	}

	metadata, format, err := readMetadata(r.r)
	if err != nil {
		if err == io.EOF {
			r.finished = true
		}
		return nil, err
	}

	name, err := r.readName(metadata.NameLen, format)
	if err != nil {
		return nil, err
	}
	if name == trailerName {
		r.finished = true
		return nil, io.EOF
	}

	entry, err := r.buildEntry(metadata, format, name)
	if err != nil {
		return nil, err
	}
	r.current = entry
	return entry, nil
}

func (r *Reader) readName(nameLen uint32, format Format) (string, error) {
	if nameLen < 1 {
		return "", fmt.Errorf("%w: zero-length name", ErrInvalidData)
	}
	buf := make([]byte, nameLen)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return "", fmt.Errorf("%w: short name read: %v", ErrInvalidData, err)
	}
	for _, b := range buf[:len(buf)-1] {
		if b == 0 {
			return "", fmt.Errorf("%w: embedded NUL in name", ErrInvalidData)
		}
	}
	if buf[len(buf)-1] != 0 {
		return "", fmt.Errorf("%w: name is not NUL-terminated", ErrInvalidData)
	}
	if format.IsNewcLike() {
		if err := ReadPadding(r.r, newcAlign, nameAlignUnit(format, int(nameLen))); err != nil {
			return "", err
		}
	} else if format.Kind == FormatBin {
		if err := ReadPadding(r.r, binAlign, int(nameLen)); err != nil {
			return "", err
		}
	}
	return string(buf[:len(buf)-1]), nil
}

func nameAlignUnit(format Format, nameLen int) int {
	if format.IsNewcLike() {
		return newcHeaderLen + nameLen
	}
	return nameLen
}

// buildEntry implements the data-reader construction of spec.md §4.5 step 5.
func (r *Reader) buildEntry(metadata Metadata, format Format, name string) (*Entry, error) {
	ft, ftErr := metadata.FileType()

	if format.IsNewcLike() {
		isPrimaryCandidate := metadata.FileSize > 0 && metadata.Nlink > 1 && (ftErr != nil || ft != Directory)
		if isPrimaryCandidate {
			buf := make([]byte, metadata.FileSize)
			if _, err := io.ReadFull(r.r, buf); err != nil {
				return nil, fmt.Errorf("%w: short payload read: %v", ErrInvalidData, err)
			}
			if err := ReadPadding(r.r, newcAlign, int(metadata.FileSize)); err != nil {
				return nil, err
			}
			if r.verifyCRC && format.Kind == FormatCrc && ftErr == nil && ft == Regular {
				if err := verifyCheck(buf, metadata.Check); err != nil {
					return nil, err
				}
			}
			r.contents[metadata.id()] = buf
		}
		if cached, ok := r.contents[metadata.id()]; ok {
			// isPrimaryCandidate already drained both the payload and its
			// alignment padding above; a genuine secondary never reads
			// anything (its on-wire file size is 0), so only the primary's
			// entryReader must tell discard there is nothing left to do.
			return &Entry{
				Metadata: metadata,
				Format:   format,
				Name:     name,
				owner:    r,
				reader: &entryReader{
					slice:    cached,
					src:      r.r,
					format:   format,
					skip:     0,
					consumed: isPrimaryCandidate,
				},
			}, nil
		}
	}

	if r.verifyCRC && format.Kind == FormatCrc && ftErr == nil && ft == Regular {
		buf := make([]byte, metadata.FileSize)
		if _, err := io.ReadFull(r.r, buf); err != nil {
			return nil, fmt.Errorf("%w: short payload read: %v", ErrInvalidData, err)
		}
		if err := verifyCheck(buf, metadata.Check); err != nil {
			return nil, err
		}
		// The payload itself is already fully drained by ReadFull above
		// (skip: 0); only the trailing alignment padding is still pending,
		// which the format-specific branch of entryReader.discard handles.
		return &Entry{
			Metadata: metadata,
			Format:   format,
			Name:     name,
			owner:    r,
			reader: &entryReader{
				slice:  buf,
				src:    r.r,
				format: format,
				skip:   0,
			},
		}, nil
	}

	return &Entry{
		Metadata: metadata,
		Format:   format,
		Name:     name,
		owner:    r,
		reader: &entryReader{
			stream: &io.LimitedReader{R: r.r, N: int64(metadata.FileSize)},
			src:    r.r,
			format: format,
		},
	}, nil
}

func verifyCheck(buf []byte, want uint32) error {
	sink := &crcSink{}
	_, _ = io.Copy(sink, bytes.NewReader(buf))
	if sink.Sum() != want {
		return fmt.Errorf("%w: crc checksum mismatch: have %#x want %#x", ErrInvalidData, sink.Sum(), want)
	}
	return nil
}
