//go:build !windows

package utils

import "golang.org/x/sys/unix"

func crossDeviceErr() error {
	return unix.EXDEV
}
