package config

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultPackageDir  = "."
	DefaultSourceDir   = "src/libsass"
	DefaultSourceRepo  = "git@github.com:sass/libsass.git"
	DefaultGitPath     = "git"
	DefaultRuntimePath = "node"
	DefaultGypScript   = "node_modules/pangyp/bin/node-gyp"
	DefaultCacheDir    = ".sassbuild-cache"
	DefaultVerbose     = false
	DefaultCache       = false
)

// Knobs are the toolchain overrides forwarded as --<knob>=<value>. Each
// value comes from the environment variable named by the upper-cased knob.
var Knobs = []string{"libsass_ext", "libsass_cflags", "libsass_ldflags", "libsass_library"}

// Holds the configuration for a single invocation. Built once by Load and
// handed to every component; nothing reads viper after that.
type Config struct {
	// Root of the package being built (vendor/ and build/ live here)
	PackageDir string

	// Native source checkout
	SourceDir  string
	SourceRepo string
	GitPath    string

	// Runtime executable and the toolchain script it runs
	RuntimePath string
	GypScript   string

	// Module ABI of the runtime; detected when empty
	RuntimeABI string

	// Overrides for the binding name and full binding path
	BinaryName string
	BinaryPath string

	// Always rebuild
	ForceBuild bool

	// Enable verbose output
	Verbose bool

	// Artifact cache
	CacheEnabled bool
	CacheDir     string

	// Toolchain knob values keyed by knob name
	KnobValues map[string]string
}

func Load() (*Config, error) {
	cfg := &Config{
		PackageDir:   viper.GetString("package_dir"),
		SourceDir:    viper.GetString("source_dir"),
		SourceRepo:   viper.GetString("source_repo"),
		GitPath:      viper.GetString("git_path"),
		RuntimePath:  viper.GetString("runtime_path"),
		GypScript:    viper.GetString("gyp_script"),
		RuntimeABI:   viper.GetString("runtime_abi"),
		BinaryName:   viper.GetString("binary_name"),
		BinaryPath:   viper.GetString("binary_path"),
		ForceBuild:   parseForce(viper.GetString("force_build")),
		Verbose:      viper.GetBool("verbose"),
		CacheEnabled: viper.GetBool("cache"),
		CacheDir:     viper.GetString("cache_dir"),
		KnobValues:   make(map[string]string, len(Knobs)),
	}

	for _, knob := range Knobs {
		cfg.KnobValues[knob] = viper.GetString(knob)
	}

	// Apply defaults if not set
	if cfg.PackageDir == "" {
		cfg.PackageDir = DefaultPackageDir
	}

	if cfg.SourceDir == "" {
		cfg.SourceDir = DefaultSourceDir
	}

	if cfg.SourceRepo == "" {
		cfg.SourceRepo = DefaultSourceRepo
	}

	if cfg.GitPath == "" {
		cfg.GitPath = DefaultGitPath
	}

	if cfg.RuntimePath == "" {
		cfg.RuntimePath = DefaultRuntimePath
	}

	if cfg.GypScript == "" {
		cfg.GypScript = DefaultGypScript
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	abs, err := filepath.Abs(c.PackageDir)
	if err != nil {
		return fmt.Errorf("invalid package directory: %v", err)
	}

	c.PackageDir = abs

	// Relative paths are relative to the package, not the working directory
	c.SourceDir = c.resolve(c.SourceDir)
	c.GypScript = c.resolve(c.GypScript)
	c.CacheDir = c.resolve(c.CacheDir)

	if c.BinaryPath != "" {
		c.BinaryPath = c.resolve(c.BinaryPath)
	}

	// Bare executable names are looked up on PATH
	if filepath.Base(c.RuntimePath) != c.RuntimePath {
		c.RuntimePath = c.resolve(c.RuntimePath)
	}

	if c.SourceRepo == "" {
		return fmt.Errorf("source repository not specified")
	}

	// An empty name means <platform>-<arch>-<abi>
	if c.BinaryName != "" && !validBinaryName(c.BinaryName) {
		return fmt.Errorf("invalid binary name: %s", c.BinaryName)
	}

	return nil
}

// validBinaryName accepts a single path element naming a vendor subdirectory
func validBinaryName(name string) bool {
	return filepath.Base(name) == name && name != "." && name != ".."
}

// Knob returns the configured value for a toolchain knob, empty when unset
func (c *Config) Knob(name string) string {
	return c.KnobValues[name]
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(c.PackageDir, p)
}

// parseForce accepts boolean spellings; any other non-empty value forces
func parseForce(v string) bool {
	if v == "" {
		return false
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}

	return b
}
