package cpio

import "errors"

// Package-specific error variables that can be used with errors.Is() for error handling.
var (
	// ErrInvalidData is returned when a header, field, name or checksum does
	// not decode to a well-formed cpio entry.
	ErrInvalidData = errors.New("cpio: invalid data")

	// ErrNameTooLong is returned when a path does not fit the name-length
	// field of the selected format.
	ErrNameTooLong = errors.New("cpio: name too long for format")

	// ErrStaleEntry is returned when Read is called on an Entry after the
	// Reader has moved on to the next one.
	ErrStaleEntry = errors.New("cpio: entry is no longer current")

	// ErrUnsupportedPlatform is returned by os-adapter primitives that have
	// no implementation on the running GOOS.
	ErrUnsupportedPlatform = errors.New("cpio: unsupported on this platform")

	// ErrWriterClosed is returned by writer methods called after Finish.
	ErrWriterClosed = errors.New("cpio: writer already finished")

	// ErrSymlinkHardLink is returned when a hard-link group's primary is a
	// symbolic link; reference cpio leaves this case unhandled and silently
	// corrupts the archive, so this package reports it instead.
	ErrSymlinkHardLink = errors.New("cpio: hard link to a symlink is not supported")
)
