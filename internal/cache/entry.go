package cache

import "time"

// Entry represents a cached build result
type Entry struct {
	// Key is the blake3 digest of the build inputs
	Key string `json:"key"`

	Platform string `json:"platform"`
	Arch     string `json:"arch"`
	ABI      string `json:"abi"`
	Debug    bool   `json:"debug"`

	// Revision is the libsass commit the artifact was built from
	Revision string `json:"revision"`

	// Knobs are the LIBSASS_* values passed to the toolchain
	Knobs map[string]string `json:"knobs"`

	// Args are the passthrough toolchain arguments
	Args []string `json:"args"`

	// Timestamp when this entry was created
	Timestamp time.Time `json:"timestamp"`

	// Size of the uncompressed artifact in bytes
	Size int64 `json:"size"`

	// Checksum is the blake3 digest of the uncompressed artifact
	Checksum string `json:"checksum"`
}
