//go:build !windows

package fetcher

import "golang.org/x/sys/unix"

// access checks that path exists and is readable by this process
func access(path string) error {
	return unix.Access(path, unix.R_OK)
}
