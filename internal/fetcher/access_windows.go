//go:build windows

package fetcher

import "os"

// access checks that path exists; ACL readability is left to git
func access(path string) error {
	_, err := os.Stat(path)
	return err
}
