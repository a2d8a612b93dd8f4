package cpio_test

import (
	"testing"

	"github.com/KarpelesLab/cpio"
)

func TestMakedevMajorMinorRoundTrip(t *testing.T) {
	cases := []struct{ major, minor uint32 }{
		{0, 0},
		{1, 3},
		{7, 0},
		{0xfff, 0xff},
		{0xfffff, 0xffffff},
	}
	for _, c := range cases {
		dev := cpio.Makedev(c.major, c.minor)
		if got := cpio.Major(dev); got != c.major {
			t.Fatalf("Major(Makedev(%d,%d)) = %d, want %d", c.major, c.minor, got, c.major)
		}
		if got := cpio.Minor(dev); got != c.minor {
			t.Fatalf("Minor(Makedev(%d,%d)) = %d, want %d", c.major, c.minor, got, c.minor)
		}
	}
}
