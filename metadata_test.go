package cpio_test

import (
	"bytes"
	"testing"

	"github.com/KarpelesLab/cpio"
)

func sampleMetadata() cpio.Metadata {
	return cpio.Metadata{
		Dev: 5, Ino: 42, Mode: uint32(cpio.Regular)<<12 | 0o644,
		Uid: 1000, Gid: 1000, Nlink: 1,
		Rdev: 0, Mtime: 1700000000, NameLen: 9, FileSize: 5,
	}
}

func TestWriterEntryS2Shape(t *testing.T) {
	// spec.md S2: newc header is exactly 110 bytes, name padded to
	// align(110+10)=120, file padded to align(5)=8.
	var buf bytes.Buffer
	w := cpio.NewWriter(&buf)
	meta := cpio.Metadata{
		Dev: 1, Ino: 7, Mode: uint32(cpio.Regular)<<12 | 0o644,
		Nlink: 1, Mtime: 1700000000, FileSize: 5,
	}
	if err := w.WriteEntry(meta, "greet.txt", bytes.NewBufferString("hello")); err != nil {
		t.Fatalf("WriteEntry: %s", err)
	}
	if got := buf.Len(); got != 120+8 {
		t.Fatalf("entry occupies %d bytes, want 128 (120 header+name, 8 payload)", got)
	}
}

func TestReaderRoundTripAllFormats(t *testing.T) {
	formats := []cpio.Format{
		{Kind: cpio.FormatNewc},
		{Kind: cpio.FormatCrc},
		{Kind: cpio.FormatOdc},
		{Kind: cpio.FormatBin, Order: cpio.LittleEndian},
		{Kind: cpio.FormatBin, Order: cpio.BigEndian},
	}
	for _, format := range formats {
		format := format
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w := cpio.NewWriter(&buf, cpio.WithFormat(format))
			m := cpio.Metadata{
				Dev: 2, Ino: 3, Mode: uint32(cpio.Regular)<<12 | 0o600,
				Uid: 10, Gid: 20, Nlink: 1, Mtime: 123456, FileSize: 4,
			}
			if err := w.WriteEntry(m, "a", bytes.NewBufferString("data")); err != nil {
				t.Fatalf("WriteEntry: %s", err)
			}
			if err := w.Finish(); err != nil {
				t.Fatalf("Finish: %s", err)
			}

			r := cpio.NewReader(&buf)
			entry, err := r.Next()
			if err != nil {
				t.Fatalf("Next: %s", err)
			}
			if entry.Name != "a" {
				t.Fatalf("name = %q, want \"a\"", entry.Name)
			}
			payload := make([]byte, 4)
			if _, err := entry.Read(payload); err != nil {
				t.Fatalf("Read: %s", err)
			}
			if string(payload) != "data" {
				t.Fatalf("payload = %q, want \"data\"", payload)
			}
			if err := entry.Close(); err != nil {
				t.Fatalf("Close: %s", err)
			}

			_, err = r.Next()
			if err == nil {
				t.Fatal("expected io.EOF after trailer")
			}
		})
	}
}

func TestEmptyArchiveIsJustTrailer(t *testing.T) {
	// spec.md S1: packing nothing yields only the trailer.
	var buf bytes.Buffer
	w := cpio.NewWriter(&buf)
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %s", err)
	}
	r := cpio.NewReader(&buf)
	if _, err := r.Next(); err == nil {
		t.Fatal("expected io.EOF on an empty archive")
	}
}
