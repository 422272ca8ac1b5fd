package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// rename is swapped in tests to simulate a cross-device move
var rename = os.Rename

// CopyFile copies a file from src to dst, creating the parent directory
// and preserving file permissions
func CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}

	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}

	if err := dstFile.Close(); err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.Chmod(dst, srcInfo.Mode())
}

// MoveFile renames src to dst. When the two live on different devices it
// falls back to copying and removing the source.
func MoveFile(src, dst string) error {
	err := rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !isCrossDevice(linkErr.Err) {
		return err
	}

	if err := CopyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy across devices: %w", err)
	}

	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove %s after copy: %w", src, err)
	}

	return nil
}
