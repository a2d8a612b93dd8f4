package cpio_test

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/KarpelesLab/cpio"
	"github.com/KarpelesLab/cpio/internal/cpiotest"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	src := t.TempDir()
	if err := cpiotest.GenerateTree(src, cpiotest.GenOptions{NumFiles: 8}); err != nil {
		t.Fatalf("GenerateTree: %s", err)
	}

	var buf bytes.Buffer
	w := cpio.NewWriter(&buf)
	if err := cpio.AppendDirAll(w, src); err != nil {
		t.Fatalf("AppendDirAll: %s", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %s", err)
	}

	dst := t.TempDir()
	r := cpio.NewReader(&buf, cpio.WithPreserveMtime(true))
	if err := r.Unpack(dst); err != nil {
		t.Fatalf("Unpack: %s", err)
	}

	before, err := cpiotest.ListDirAll(src)
	if err != nil {
		t.Fatalf("ListDirAll(src): %s", err)
	}
	after, err := cpiotest.ListDirAll(dst)
	if err != nil {
		t.Fatalf("ListDirAll(dst): %s", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("round trip mismatch:\nbefore=%+v\nafter=%+v", before, after)
	}
}

func TestUnpackDirectoryModeDeferred(t *testing.T) {
	// spec.md S4: a restrictively-moded directory is still writable enough
	// during unpack to receive its children, then chmod-ed afterward.
	var buf bytes.Buffer
	w := cpio.NewWriter(&buf)
	dirMeta := cpio.Metadata{Dev: 1, Ino: 1, Mode: uint32(cpio.Directory)<<12 | 0o500, Nlink: 1}
	if err := w.WriteEntry(dirMeta, "d", bytes.NewReader(nil)); err != nil {
		t.Fatalf("WriteEntry(d): %s", err)
	}
	fileMeta := cpio.Metadata{Dev: 1, Ino: 2, Mode: uint32(cpio.Regular)<<12 | 0o644, Nlink: 1, FileSize: 1}
	if err := w.WriteEntry(fileMeta, "d/f", bytes.NewBufferString("x")); err != nil {
		t.Fatalf("WriteEntry(d/f): %s", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %s", err)
	}

	dst := t.TempDir()
	r := cpio.NewReader(&buf)
	if err := r.Unpack(dst); err != nil {
		t.Fatalf("Unpack: %s", err)
	}

	info, err := os.Stat(filepath.Join(dst, "d"))
	if err != nil {
		t.Fatalf("Stat(d): %s", err)
	}
	if info.Mode().Perm() != 0o500 {
		t.Fatalf("final directory mode = %o, want 0500", info.Mode().Perm())
	}
	if _, err := os.Stat(filepath.Join(dst, "d", "f")); err != nil {
		t.Fatalf("Stat(d/f): %s", err)
	}
}

func TestUnpackPathEscapeIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	w := cpio.NewWriter(&buf)
	m := cpio.Metadata{Dev: 1, Ino: 1, Mode: uint32(cpio.Regular)<<12 | 0o644, Nlink: 1, FileSize: 1}
	if err := w.WriteEntry(m, "../escape", bytes.NewBufferString("x")); err != nil {
		t.Fatalf("WriteEntry: %s", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %s", err)
	}

	dst := t.TempDir()
	r := cpio.NewReader(&buf)
	if err := r.Unpack(dst); err != nil {
		t.Fatalf("Unpack: %s", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dst), "escape")); err == nil {
		t.Fatal("path-escape entry must not be materialized outside the unpack root")
	}
}
