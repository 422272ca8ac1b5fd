package cache

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"lukechampine.com/blake3"
)

// compressArtifact writes src zstd-compressed to dst and returns the
// uncompressed size and blake3 checksum
func compressArtifact(src, dst string) (int64, string, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, "", err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, "", fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".artifact-*")
	if err != nil {
		return 0, "", err
	}
	defer os.Remove(tmp.Name())

	zw, err := zstd.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		return 0, "", fmt.Errorf("failed to create zstd writer: %w", err)
	}

	h := blake3.New(32, nil)

	size, err := io.Copy(io.MultiWriter(zw, h), in)
	if err != nil {
		zw.Close()
		tmp.Close()
		return 0, "", err
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		return 0, "", err
	}

	if err := tmp.Close(); err != nil {
		return 0, "", err
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, "", err
	}

	return size, hex.EncodeToString(h.Sum(nil)), nil
}

// restoreArtifact decompresses src into dst and checks the result
// against checksum. A mismatching dst is removed.
func restoreArtifact(src, dst, checksum string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	zr, err := zstd.NewReader(in)
	if err != nil {
		return fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}

	h := blake3.New(32, nil)

	if _, err := io.Copy(io.MultiWriter(out, h), zr); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to decompress artifact: %w", err)
	}

	if err := out.Close(); err != nil {
		return err
	}

	if got := hex.EncodeToString(h.Sum(nil)); got != checksum {
		os.Remove(dst)
		return fmt.Errorf("%w: want %s, got %s", ErrChecksumMismatch, checksum, got)
	}

	return nil
}
