package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Loader handles configuration loading from various sources
type Loader struct {
	userConfigDir func() (string, error)
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		userConfigDir: os.UserConfigDir,
	}
}

// LoadForBuild loads configuration for an invocation started in workDir.
// cmd may be nil; its flags are bound when present.
func (l *Loader) LoadForBuild(cmd *cobra.Command, workDir string) (*Config, error) {
	l.setupViperDefaults()
	l.loadGlobalConfig()
	l.loadLocalConfig(workDir)
	l.bindEnvironment()
	l.bindCommandFlags(cmd)

	return Load()
}

// setupViperDefaults sets up default values for viper
func (l *Loader) setupViperDefaults() {
	viper.SetDefault("package_dir", DefaultPackageDir)
	viper.SetDefault("source_dir", DefaultSourceDir)
	viper.SetDefault("source_repo", DefaultSourceRepo)
	viper.SetDefault("git_path", DefaultGitPath)
	viper.SetDefault("runtime_path", DefaultRuntimePath)
	viper.SetDefault("gyp_script", DefaultGypScript)
	viper.SetDefault("cache_dir", DefaultCacheDir)
	viper.SetDefault("verbose", DefaultVerbose)
	viper.SetDefault("cache", DefaultCache)
}

// loadGlobalConfig loads the per-user configuration file
func (l *Loader) loadGlobalConfig() {
	base, err := l.userConfigDir()
	if err != nil || base == "" {
		return
	}

	globalDir := filepath.Join(base, "sassbuild")

	for _, ext := range ConfigExtensions {
		globalPath := filepath.Join(globalDir, "config."+ext)

		if _, err := os.Stat(globalPath); err == nil {
			viper.SetConfigFile(globalPath)

			if err := viper.ReadInConfig(); err == nil {
				break
			}
		}
	}
}

// loadLocalConfig merges the nearest .sassbuild.* above workDir
func (l *Loader) loadLocalConfig(workDir string) {
	if workDir == "" {
		return
	}

	dir, err := filepath.Abs(workDir)
	if err != nil {
		return // silently ignore, Load() validates what it gets
	}

	localPath := FindLocalConfig(dir)
	if localPath == "" {
		return
	}

	viper.SetConfigFile(localPath)
	_ = viper.MergeInConfig()

	// package_dir in a local file is relative to that file
	local := viper.New()
	local.SetConfigFile(localPath)
	if err := local.ReadInConfig(); err != nil || !local.IsSet("package_dir") {
		return
	}

	if p := local.GetString("package_dir"); !filepath.IsAbs(p) {
		viper.Set("package_dir", filepath.Join(filepath.Dir(localPath), p))
	}
}

// bindEnvironment binds the environment variables the build honours
func (l *Loader) bindEnvironment() {
	_ = viper.BindEnv("force_build", "SASS_FORCE_BUILD")
	_ = viper.BindEnv("binary_name", "SASS_BINARY_NAME")
	_ = viper.BindEnv("binary_path", "SASS_BINARY_PATH")
	_ = viper.BindEnv("runtime_abi", "SASS_RUNTIME_ABI")
	_ = viper.BindEnv("verbose", "SASSBUILD_VERBOSE")
	_ = viper.BindEnv("cache", "SASSBUILD_CACHE")

	for _, knob := range Knobs {
		_ = viper.BindEnv(knob, strings.ToUpper(knob))
	}
}

// bindCommandFlags binds command flags to viper
func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	for _, name := range []string{"cache-dir", "verbose"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = viper.BindPFlag(strings.ReplaceAll(name, "-", "_"), f)
		}
	}
}
