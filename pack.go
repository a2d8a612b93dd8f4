package cpio

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
)

// AppendPath lstats outerPath, builds its cpio metadata, and writes it to w
// under innerPath (spec.md §4.6 append_path). Traversal itself stays an
// external collaborator: callers walk a tree and call this once per entry.
func AppendPath(w *Writer, outerPath, innerPath string) (Metadata, os.FileInfo, error) {
	info, err := os.Lstat(outerPath)
	if err != nil {
		return Metadata{}, nil, err
	}

	m, ok := metadataFromFileInfo(info)
	if !ok {
		return Metadata{}, nil, fmt.Errorf("%w: cannot stat %q", ErrUnsupportedPlatform, outerPath)
	}

	var payload io.Reader
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(outerPath)
		if err != nil {
			return Metadata{}, nil, err
		}
		buf := append([]byte(target), 0)
		m.FileSize = uint64(len(buf))
		payload = bytes.NewReader(buf)
	case info.Mode().IsRegular():
		f, err := os.Open(outerPath)
		if err != nil {
			return Metadata{}, nil, err
		}
		defer f.Close()
		m.FileSize = uint64(info.Size())
		payload = f
	default:
		m.FileSize = 0
		payload = bytes.NewReader(nil)
	}

	if err := w.WriteEntry(m, innerPath, payload); err != nil {
		return Metadata{}, nil, err
	}
	return m, info, nil
}

// AppendDirAll walks dir (spec.md's external traversal collaborator,
// implemented here with the standard io/fs.WalkDir over os.DirFS) and
// appends every entry below it, skipping the root itself, with slash-
// separated paths relative to dir as the inner names.
func AppendDirAll(w *Writer, dir string) error {
	return fs.WalkDir(os.DirFS(dir), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		_, _, err = AppendPath(w, path.Join(dir, p), p)
		return err
	})
}
