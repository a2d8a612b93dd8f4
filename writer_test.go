package cpio_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/KarpelesLab/cpio"
)

func TestWriterRejectsWriteAfterFinish(t *testing.T) {
	var buf bytes.Buffer
	w := cpio.NewWriter(&buf)
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %s", err)
	}
	m := cpio.Metadata{Dev: 1, Ino: 1, Mode: uint32(cpio.Regular)<<12 | 0o644, Nlink: 1}
	if err := w.WriteEntry(m, "late", bytes.NewReader(nil)); !errors.Is(err, cpio.ErrWriterClosed) {
		t.Fatalf("WriteEntry after Finish = %v, want ErrWriterClosed", err)
	}
	if err := w.Finish(); !errors.Is(err, cpio.ErrWriterClosed) {
		t.Fatalf("second Finish = %v, want ErrWriterClosed", err)
	}
}

func TestWriterRejectsOversizedNameOdc(t *testing.T) {
	var buf bytes.Buffer
	w := cpio.NewWriter(&buf, cpio.WithFormat(cpio.Format{Kind: cpio.FormatOdc}))
	m := cpio.Metadata{Dev: 1, Ino: 1, Mode: uint32(cpio.Regular)<<12 | 0o644, Nlink: 1}
	name := strings.Repeat("x", cpio.Max6+1)
	if err := w.WriteEntry(m, name, bytes.NewReader(nil)); !errors.Is(err, cpio.ErrNameTooLong) {
		t.Fatalf("WriteEntry with oversized name = %v, want ErrNameTooLong", err)
	}
}

func TestWriterRejectsSymlinkAsHardLinkPrimary(t *testing.T) {
	// A symlink can never be the primary of a hard-link group on the wire:
	// its payload (the link target) must be read back verbatim for every
	// name, which the secondary-replay protocol doesn't support.
	var buf bytes.Buffer
	w := cpio.NewWriter(&buf)
	m := cpio.Metadata{
		Dev: 1, Ino: 42, Mode: uint32(cpio.Symlink)<<12 | 0o777,
		Nlink: 2, FileSize: 3,
	}
	if err := w.WriteEntry(m, "link-a", bytes.NewBufferString("tgt")); err != nil {
		t.Fatalf("WriteEntry(link-a): %s", err)
	}
	err := w.WriteEntry(m, "link-b", bytes.NewBufferString("tgt"))
	if !errors.Is(err, cpio.ErrSymlinkHardLink) {
		t.Fatalf("second symlink with shared inode = %v, want ErrSymlinkHardLink", err)
	}
}

func TestWriterRemapsDeviceIdsForOdc(t *testing.T) {
	// odc/bin carry a short per-archive device id rather than the caller's
	// real (potentially 64-bit) dev/rdev; distinct source devices must map
	// to distinct, small, stable ids.
	var buf bytes.Buffer
	w := cpio.NewWriter(&buf, cpio.WithFormat(cpio.Format{Kind: cpio.FormatOdc}))
	a := cpio.Metadata{Dev: 0xAAAA, Ino: 1, Mode: uint32(cpio.Regular)<<12 | 0o644, Nlink: 1}
	b := cpio.Metadata{Dev: 0xBBBB, Ino: 2, Mode: uint32(cpio.Regular)<<12 | 0o644, Nlink: 1}
	if err := w.WriteEntry(a, "a", bytes.NewReader(nil)); err != nil {
		t.Fatalf("WriteEntry(a): %s", err)
	}
	if err := w.WriteEntry(b, "b", bytes.NewReader(nil)); err != nil {
		t.Fatalf("WriteEntry(b): %s", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %s", err)
	}

	r := cpio.NewReader(&buf)
	first, err := r.Next()
	if err != nil {
		t.Fatalf("Next(a): %s", err)
	}
	second, err := r.Next()
	if err != nil {
		t.Fatalf("Next(b): %s", err)
	}
	if first.Metadata.Dev == second.Metadata.Dev {
		t.Fatalf("distinct source devices remapped to the same id %d", first.Metadata.Dev)
	}
	if first.Metadata.Dev == 0xAAAA || second.Metadata.Dev == 0xBBBB {
		t.Fatal("remapped device id leaked the original 64-bit value onto the wire")
	}
}
