package main

import (
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// wrapOutput transparently compresses a just-created archive when the
// output file name ends in .zst or .xz. Compression is CLI-only sugar: the
// cpio wire format itself is never compressed, matching how real cpio
// archives are piped through gzip/xz/zstd by the shell rather than having
// compression baked into the codec.
func wrapOutput(w io.Writer, name string) (io.WriteCloser, error) {
	switch {
	case hasSuffix(name, ".zst"):
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, err
		}
		return enc, nil
	case hasSuffix(name, ".xz"):
		return xz.NewWriter(w)
	default:
		return nopCloser{w}, nil
	}
}

// wrapInput transparently decompresses an archive being read when name
// ends in .zst or .xz.
func wrapInput(r io.Reader, name string) (io.Reader, error) {
	switch {
	case hasSuffix(name, ".zst"):
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case hasSuffix(name, ".xz"):
		return xz.NewReader(r)
	default:
		return r, nil
	}
}

func hasSuffix(name, suffix string) bool {
	return len(name) >= len(suffix) && name[len(name)-len(suffix):] == suffix
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
