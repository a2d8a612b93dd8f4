package cpio

import "io"

// entryReader is the bounded or cached view of a single entry's payload
// bytes, mirroring the stream/slice split of the Rust EntryReader enum
// (spec.md §4.5).
type entryReader struct {
	stream *io.LimitedReader // non-nil when reading straight off the archive stream
	slice  []byte            // non-nil when replaying a cached hard-link buffer
	src    io.Reader         // the underlying archive stream, for discard + padding
	format Format
	// skip is how many bytes of this entry's declared payload were never
	// pulled from src and must still be discarded on Close.
	skip int64
	// consumed reports that buildEntry already drained this entry's payload
	// bytes *and* its trailing alignment padding from src (the newc/crc
	// hard-link primary path, which must cache the payload before it can be
	// replayed for later secondaries). discard must then do nothing at all.
	consumed bool
}

func (e *entryReader) Read(p []byte) (int, error) {
	if e.stream != nil {
		return e.stream.Read(p)
	}
	if len(e.slice) == 0 {
		return 0, io.EOF
	}
	n := copy(p, e.slice)
	e.slice = e.slice[n:]
	return n, nil
}

// discard implements the drop guarantee: skip whatever payload bytes were
// never consumed, then eat the variant's post-payload padding so the
// stream is realigned on the next header.
func (e *entryReader) discard(fileSize uint64) error {
	if e.consumed {
		return nil
	}
	if e.stream != nil {
		if _, err := io.Copy(io.Discard, e.stream); err != nil {
			return err
		}
	} else if e.skip > 0 {
		if _, err := io.CopyN(io.Discard, e.src, e.skip); err != nil {
			return err
		}
	}
	if e.format.IsNewcLike() {
		return ReadPadding(e.src, newcAlign, int(fileSize))
	}
	if e.format.Kind == FormatBin {
		return ReadPadding(e.src, binAlign, int(fileSize))
	}
	return nil
}

// Entry is yielded by Reader.Next. It owns an exclusive view of the
// archive's current payload; calling Read after the Reader has moved on
// (via another Next, or the Entry's own Close) returns ErrStaleEntry.
type Entry struct {
	Metadata Metadata
	Format   Format
	Name     string

	reader *entryReader
	owner  *Reader
	closed bool
}

// Read reads from the entry's payload.
func (e *Entry) Read(p []byte) (int, error) {
	if e.owner != nil && e.owner.current != e {
		return 0, ErrStaleEntry
	}
	if e.closed {
		return 0, io.EOF
	}
	return e.reader.Read(p)
}

// Close discards any unread payload and padding, realigning the archive
// stream for the next call to Reader.Next. It is safe to call multiple
// times and is called automatically by Reader.Next if the caller omitted it.
func (e *Entry) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if e.owner != nil && e.owner.current == e {
		e.owner.current = nil
	}
	return e.reader.discard(e.Metadata.FileSize)
}

// IsHardLink reports whether this entry replayed a cached hard-link buffer
// rather than reading fresh bytes off the stream.
func (e *Entry) IsHardLink() bool {
	if e.reader.stream != nil || e.reader.consumed || e.owner == nil {
		return false
	}
	_, cached := e.owner.contents[e.Metadata.id()]
	return cached
}
