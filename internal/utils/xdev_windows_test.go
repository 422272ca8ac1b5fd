//go:build windows

package utils

import "golang.org/x/sys/windows"

func crossDeviceErr() error {
	return windows.ERROR_NOT_SAME_DEVICE
}
