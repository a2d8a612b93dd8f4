//go:build !linux && !darwin

package cpiotest

import "fmt"

func createSpecial(path string, kind Kind) error {
	return fmt.Errorf("cpiotest: special file kind %d is not supported on this platform", kind)
}
