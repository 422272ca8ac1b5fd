// Package cache keeps built bindings so an identical rebuild can be
// skipped.
//
// Metadata lives in a BoltDB file keyed by a blake3 digest of the build
// inputs (source revision, platform, arch, ABI, debug flag, knobs and
// passthrough args). Artifacts are stored zstd-compressed next to it:
//
//	<dir>/cache.db
//	<dir>/artifacts/<key>.zst
//
// Restores are verified against the stored checksum.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	// bucketName is the BoltDB bucket name for cache entries
	bucketName = "builds"

	dbFile       = "cache.db"
	artifactsDir = "artifacts"
)

var ErrChecksumMismatch = errors.New("cached artifact checksum mismatch")

// Cache manages build artifacts and metadata using BoltDB
type Cache struct {
	db   *bbolt.DB
	root string
}

// New opens the cache in cacheDir, creating it if needed. The database
// lock is waited on for at most a second.
func New(cacheDir string) (*Cache, error) {
	if cacheDir == "" {
		return nil, errors.New("cache directory not specified")
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(cacheDir, dbFile)
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &Cache{
		db:   db,
		root: cacheDir,
	}, nil
}

// Dir returns the cache root
func (c *Cache) Dir() string {
	return c.root
}

// Close closes the cache database
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}

	return nil
}

// Get retrieves the entry for in. Returns nil on a miss, including when
// the metadata survived but the artifact did not.
func (c *Cache) Get(in Inputs) (*Entry, error) {
	key := in.Key()

	var entry Entry
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if data == nil {
			return nil
		}

		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return nil, err
	}

	if entry.Key == "" {
		return nil, nil
	}

	if _, err := os.Stat(c.artifactPath(key)); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	return &entry, nil
}

// Store copies the artifact at artifactPath into the cache under in
func (c *Cache) Store(in Inputs, artifactPath string) (*Entry, error) {
	key := in.Key()

	size, checksum, err := compressArtifact(artifactPath, c.artifactPath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to copy artifact: %w", err)
	}

	entry := Entry{
		Key:       key,
		Platform:  in.Platform,
		Arch:      in.Arch,
		ABI:       in.ABI,
		Debug:     in.Debug,
		Revision:  in.Revision,
		Knobs:     in.Knobs,
		Args:      in.Args,
		Timestamp: time.Now(),
		Size:      size,
		Checksum:  checksum,
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		return tx.Bucket([]byte(bucketName)).Put([]byte(key), data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store cache entry: %w", err)
	}

	return &entry, nil
}

// Restore writes the artifact of entry to dest
func (c *Cache) Restore(entry *Entry, dest string) error {
	if entry == nil || entry.Key == "" {
		return errors.New("cannot restore an empty cache entry")
	}

	if err := restoreArtifact(c.artifactPath(entry.Key), dest, entry.Checksum); err != nil {
		return fmt.Errorf("failed to restore artifact: %w", err)
	}

	return nil
}

// Clear removes all cache entries and artifacts
func (c *Cache) Clear() error {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil {
			return err
		}

		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
	if err != nil {
		return err
	}

	if err := os.RemoveAll(filepath.Join(c.root, artifactsDir)); err != nil {
		return fmt.Errorf("failed to remove artifacts: %w", err)
	}

	return nil
}

// Stats returns the number of entries and the on-disk size of the
// compressed artifacts
func (c *Cache) Stats() (int, int64, error) {
	var count int
	var totalSize int64

	err := c.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket([]byte(bucketName)).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	err = filepath.WalkDir(filepath.Join(c.root, artifactsDir), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		if !d.IsDir() {
			if info, err := d.Info(); err == nil {
				totalSize += info.Size()
			}
		}

		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return count, totalSize, nil
}

func (c *Cache) artifactPath(key string) string {
	return filepath.Join(c.root, artifactsDir, key+".zst")
}
