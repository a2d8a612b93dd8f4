package cpio_test

import (
	"errors"
	"testing"

	"github.com/KarpelesLab/cpio"
)

func TestFileTypeFromMode(t *testing.T) {
	cases := []struct {
		mode uint32
		want cpio.FileType
	}{
		{uint32(cpio.Fifo) << 12, cpio.Fifo},
		{uint32(cpio.CharDevice) << 12, cpio.CharDevice},
		{uint32(cpio.Directory) << 12, cpio.Directory},
		{uint32(cpio.BlockDevice) << 12, cpio.BlockDevice},
		{uint32(cpio.Regular) << 12, cpio.Regular},
		{uint32(cpio.Symlink) << 12, cpio.Symlink},
		{uint32(cpio.Socket) << 12, cpio.Socket},
	}
	for _, c := range cases {
		got, err := cpio.FileTypeFromMode(c.mode | 0o755)
		if err != nil {
			t.Fatalf("FileTypeFromMode(%#o): %s", c.mode, err)
		}
		if got != c.want {
			t.Fatalf("FileTypeFromMode(%#o) = %v, want %v", c.mode, got, c.want)
		}
	}
}

func TestFileTypeFromModeRejectsUnknownNibble(t *testing.T) {
	_, err := cpio.FileTypeFromMode(0o030000 | 0o755)
	if !errors.Is(err, cpio.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}

func TestPredicates(t *testing.T) {
	mode := uint32(cpio.Symlink)<<12 | 0o777
	if !cpio.IsSymlink(mode) {
		t.Fatal("IsSymlink should be true")
	}
	if cpio.IsFile(mode) || cpio.IsDir(mode) {
		t.Fatal("only IsSymlink should be true")
	}
}
