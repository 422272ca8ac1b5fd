package cache

import (
	"encoding/hex"
	"io"
	"os"
	"sort"
	"strconv"

	"lukechampine.com/blake3"
)

// Inputs are the build inputs that decide whether two builds are
// interchangeable
type Inputs struct {
	Revision string
	Platform string
	Arch     string
	ABI      string
	Debug    bool
	Knobs    map[string]string
	Args     []string
}

// Cacheable reports whether the inputs pin down the build. Without a
// source revision or ABI two different builds could share a key.
func (in Inputs) Cacheable() bool {
	return in.Revision != "" && in.ABI != ""
}

// Key hashes the inputs. Knobs are sorted by name; args keep their order
// since the toolchain sees them in order.
func (in Inputs) Key() string {
	h := blake3.New(32, nil)

	field := func(s string) {
		h.Write([]byte(strconv.Itoa(len(s))))
		h.Write([]byte{':'})
		h.Write([]byte(s))
	}

	field(in.Revision)
	field(in.Platform)
	field(in.Arch)
	field(in.ABI)
	field(strconv.FormatBool(in.Debug))

	names := make([]string, 0, len(in.Knobs))
	for name := range in.Knobs {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		field(name)
		field(in.Knobs[name])
	}

	h.Write([]byte{'|'})

	for _, arg := range in.Args {
		field(arg)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// HashFile creates a blake3 hash of a file's content
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
