//go:build linux

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/KarpelesLab/cpio"
	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// archiveEntry is one decoded entry held in memory for the lifetime of the
// mount; the whole archive is read up front since cpio is a forward-only
// stream and FUSE needs random access.
type archiveEntry struct {
	metadata cpio.Metadata
	data     []byte
	fileType cpio.FileType
}

// archiveTree indexes every decoded entry by its normalized path and by its
// parent directory, so mountNode can answer Lookup/Readdir without re-
// walking the archive.
type archiveTree struct {
	byPath   map[string]*archiveEntry
	children map[string][]string // parent path -> child base names, in archive order
}

// mountNode implements a read-only view of a cpio archive over FUSE,
// grounded on the teacher's inode_fuse.go (Lookup/Open/OpenDir/ReadDir for a
// read-only archive-backed filesystem) but built on go-fuse/v2's higher
// level fs.InodeEmbedder API instead of the raw fuse.RawFileSystem surface,
// since cpio has no block/fragment table to drive a lower-level node.
type mountNode struct {
	fs.Inode
	tree  *archiveTree
	path  string // "." for the root
	entry *archiveEntry
}

var (
	_ fs.NodeGetattrer  = (*mountNode)(nil)
	_ fs.NodeOpener     = (*mountNode)(nil)
	_ fs.NodeReader     = (*mountNode)(nil)
	_ fs.NodeReadlinker = (*mountNode)(nil)
	_ fs.NodeLookuper   = (*mountNode)(nil)
	_ fs.NodeReaddirer  = (*mountNode)(nil)
)

func (n *mountNode) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	if n.entry != nil {
		out.Mode = n.entry.metadata.Mode
		out.Size = n.entry.metadata.FileSize
		out.Mtime = uint64(n.entry.metadata.Mtime)
		out.Uid = n.entry.metadata.Uid
		out.Gid = n.entry.metadata.Gid
	} else {
		out.Mode = uint32(cpio.Directory)<<12 | 0o755
	}
	return 0
}

func (n *mountNode) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	return nil, fuse.FOPEN_KEEP_CACHE, 0
}

func (n *mountNode) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	if n.entry == nil || off >= int64(len(n.entry.data)) {
		return fuse.ReadResultData(nil), 0
	}
	end := off + int64(len(dest))
	if end > int64(len(n.entry.data)) {
		end = int64(len(n.entry.data))
	}
	return fuse.ReadResultData(n.entry.data[off:end]), 0
}

func (n *mountNode) Readlink(ctx context.Context) ([]byte, syscall.Errno) {
	if n.entry == nil {
		return nil, syscall.EINVAL
	}
	return bytesTrimNUL(n.entry.data), 0
}

func (n *mountNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	childPath := joinArchivePath(n.path, name)
	entry, ok := n.tree.byPath[childPath]
	if !ok {
		return nil, syscall.ENOENT
	}
	child := &mountNode{tree: n.tree, path: childPath, entry: entry}
	stable := fs.StableAttr{Mode: modeForInode(entry.fileType)}
	return n.NewInode(ctx, child, stable), 0
}

func (n *mountNode) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	names := n.tree.children[n.path]
	entries := make([]fuse.DirEntry, 0, len(names))
	for _, name := range names {
		child := n.tree.byPath[joinArchivePath(n.path, name)]
		entries = append(entries, fuse.DirEntry{Name: name, Mode: modeForInode(child.fileType)})
	}
	return fs.NewListDirStream(entries), 0
}

func joinArchivePath(parent, name string) string {
	if parent == "." || parent == "" {
		return name
	}
	return parent + "/" + name
}

func modeForInode(ft cpio.FileType) uint32 {
	switch ft {
	case cpio.Directory:
		return fuse.S_IFDIR
	case cpio.Symlink:
		return fuse.S_IFLNK
	case cpio.BlockDevice:
		return fuse.S_IFBLK
	case cpio.CharDevice:
		return fuse.S_IFCHR
	case cpio.Fifo:
		return fuse.S_IFIFO
	case cpio.Socket:
		return fuse.S_IFSOCK
	default:
		return fuse.S_IFREG
	}
}

func bytesTrimNUL(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == 0 {
		return b[:len(b)-1]
	}
	return b
}

// runMount reads the whole archive from archiveFile (or stdin) into memory
// and serves it read-only at mountPoint until interrupted.
func runMount(archiveFile, mountPoint string) error {
	in, closeFn, err := openArchive(archiveFile)
	if err != nil {
		return err
	}
	defer closeFn()

	tree, err := buildTree(in)
	if err != nil {
		return err
	}
	root := &mountNode{tree: tree, path: "."}

	server, err := fs.Mount(mountPoint, root, &fs.Options{
		MountOptions: fuse.MountOptions{Name: "cpio", FsName: archiveFile, Debug: false},
	})
	if err != nil {
		return fmt.Errorf("mounting at %q: %w", mountPoint, err)
	}
	server.Wait()
	return nil
}

// buildTree decodes every entry and indexes it by path and by parent
// directory; hard-link secondaries share the primary's archiveEntry because
// cpio.Reader already resolves them to the same cached payload.
func buildTree(r io.Reader) (*archiveTree, error) {
	reader := cpio.NewReader(r)
	tree := &archiveTree{
		byPath:   make(map[string]*archiveEntry),
		children: make(map[string][]string),
	}
	byID := make(map[cpio.MetadataID]*archiveEntry)

	for {
		entry, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(entry)
		if err != nil {
			return nil, err
		}
		entry.Close()

		ft, _ := entry.Metadata.FileType()
		path := strings.TrimSuffix(entry.Name, "/")
		id := cpio.MetadataID{Dev: entry.Metadata.Dev, Ino: entry.Metadata.Ino}
		if primary, ok := byID[id]; ok && entry.IsHardLink() {
			tree.byPath[path] = primary
		} else {
			ae := &archiveEntry{metadata: entry.Metadata, data: data, fileType: ft}
			byID[id] = ae
			tree.byPath[path] = ae
		}

		parent, name := splitPath(path)
		tree.children[parent] = append(tree.children[parent], name)
	}
	return tree, nil
}

func splitPath(p string) (dir, base string) {
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return ".", p
	}
	return p[:idx], p[idx+1:]
}
