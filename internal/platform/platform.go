package platform

import (
	"runtime"
	"slices"
)

// Identifiers use the JavaScript runtime's naming (process.platform and
// process.arch), since that is what the binding directory is named after.

var platforms = map[string]string{
	"darwin":  "darwin",
	"freebsd": "freebsd",
	"linux":   "linux",
	"windows": "win32",
}

var arches = map[string]string{
	"386":   "ia32",
	"amd64": "x64",
	"arm":   "arm",
	"arm64": "arm64",
}

// Supported environments for prebuilt bindings
var (
	SupportedPlatforms = []string{"darwin", "freebsd", "linux", "win32"}
	SupportedArches    = []string{"ia32", "x64", "arm64"}
)

// Platform returns the runtime identifier for the host operating system
func Platform() string {
	return FromGOOS(runtime.GOOS)
}

// Arch returns the runtime identifier for the host architecture
func Arch() string {
	return FromGOARCH(runtime.GOARCH)
}

// FromGOOS maps a GOOS value, passing unknown values through unchanged
func FromGOOS(goos string) string {
	if p, ok := platforms[goos]; ok {
		return p
	}

	return goos
}

// FromGOARCH maps a GOARCH value, passing unknown values through unchanged
func FromGOARCH(goarch string) string {
	if a, ok := arches[goarch]; ok {
		return a
	}

	return goarch
}

// IsSupported reports whether prebuilt bindings can exist for the pair
func IsSupported(platform, arch string) bool {
	return slices.Contains(SupportedPlatforms, platform) && slices.Contains(SupportedArches, arch)
}
