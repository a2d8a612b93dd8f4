// Package cpiotest holds test-only helpers for comparing a directory tree
// before packing against the tree produced by unpacking, grounded in the
// original implementation's cpio-test/src/file.rs list_dir_all.
package cpiotest

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Metadata is the subset of a file's stat info compared across a
// pack/unpack round trip. Inode numbers are remapped to small sequential
// ids before comparison since the filesystem is free to assign fresh ones.
type Metadata struct {
	Ino      uint64
	Mode     uint32
	Uid      uint32
	Gid      uint32
	Nlink    uint32
	Rdev     uint64
	Mtime    uint64
	FileSize uint64
}

// FileInfo is one entry produced by ListDirAll.
type FileInfo struct {
	Path     string
	Metadata Metadata
	Contents []byte
}

// ListDirAll walks dir and returns every descendant's path (relative to
// dir), metadata and contents (file bytes, or symlink target for
// symlinks), sorted by path with inode numbers remapped to small
// sequential ids so two independently-materialized trees can be compared
// with reflect.DeepEqual.
func ListDirAll(dir string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == dir {
			return nil
		}
		info, err := os.Lstat(p)
		if err != nil {
			return err
		}
		m, ok := statMetadata(info)
		if !ok {
			return nil
		}

		var contents []byte
		switch {
		case info.Mode().IsRegular():
			contents, err = os.ReadFile(p)
			if err != nil {
				return err
			}
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(p)
			if err != nil {
				return err
			}
			contents = []byte(target)
			// cpio never round-trips a symlink's mtime (it isn't portable
			// to set one without following the link), so it isn't a
			// meaningful comparison point between a source and unpacked tree.
			m.Mtime = 0
		case info.IsDir():
			// a directory's mtime is naturally bumped by creating its
			// children after unpack sets it, so it isn't a stable
			// comparison point either.
			m.Mtime = 0
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: rel, Metadata: m, Contents: contents})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	inodes := make(map[uint64]uint64)
	var next uint64
	for i := range files {
		old := files[i].Metadata.Ino
		remapped, ok := inodes[old]
		if !ok {
			remapped = next
			inodes[old] = remapped
			next++
		}
		files[i].Metadata.Ino = remapped
	}
	return files, nil
}
