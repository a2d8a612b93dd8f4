package cpio_test

import (
	"bytes"
	"testing"

	"github.com/KarpelesLab/cpio"
)

func TestCrcWriterSumMatchesSpecExample(t *testing.T) {
	// spec.md S3: payload "xyz" sums to 0x78+0x79+0x7A = 0x16B.
	var out bytes.Buffer
	w := cpio.NewWriter(&out, cpio.WithFormat(cpio.Format{Kind: cpio.FormatCrc}))
	meta := cpio.Metadata{
		Dev: 1, Ino: 1, Mode: uint32(cpio.Regular)<<12 | 0o644,
		Nlink: 1, FileSize: 3,
	}
	if err := w.WriteEntry(meta, "xyz.txt", bytes.NewBufferString("xyz")); err != nil {
		t.Fatalf("WriteEntry: %s", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %s", err)
	}

	r := cpio.NewReader(&out, cpio.WithVerifyCRC(true))
	entry, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %s", err)
	}
	if entry.Metadata.Check != 0x16B {
		t.Fatalf("check = %#x, want 0x16b", entry.Metadata.Check)
	}
}
