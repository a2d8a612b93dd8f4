//go:build !linux

package main

import "fmt"

func runMount(archiveFile, mountPoint string) error {
	return fmt.Errorf("cpio: --mount is only available on linux")
}
