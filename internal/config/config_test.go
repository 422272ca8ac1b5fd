package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	pkgDir := t.TempDir()

	tests := []struct {
		name        string
		setupViper  func()
		check       func(*testing.T, *Config)
		wantErr     bool
		errContains string
	}{
		{
			name: "load with all defaults",
			setupViper: func() {
				viper.Reset()
				viper.Set("package_dir", pkgDir)
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, pkgDir, cfg.PackageDir)
				assert.Equal(t, filepath.Join(pkgDir, "src", "libsass"), cfg.SourceDir)
				assert.Equal(t, DefaultSourceRepo, cfg.SourceRepo)
				assert.Equal(t, DefaultGitPath, cfg.GitPath)
				assert.Equal(t, DefaultRuntimePath, cfg.RuntimePath)
				assert.Equal(t, filepath.Join(pkgDir, "node_modules", "pangyp", "bin", "node-gyp"), cfg.GypScript)
				assert.Equal(t, filepath.Join(pkgDir, DefaultCacheDir), cfg.CacheDir)
				assert.False(t, cfg.ForceBuild)
				assert.False(t, cfg.Verbose)
				assert.False(t, cfg.CacheEnabled)
				assert.Empty(t, cfg.BinaryPath)
				assert.Empty(t, cfg.BinaryName)
				for _, knob := range Knobs {
					assert.Equal(t, "", cfg.Knob(knob))
				}
			},
		},
		{
			name: "load with custom values",
			setupViper: func() {
				viper.Reset()
				viper.Set("package_dir", pkgDir)
				viper.Set("runtime_path", "/opt/node/bin/node")
				viper.Set("source_dir", "/var/src/libsass")
				viper.Set("binary_path", "out/binding.node")
				viper.Set("runtime_abi", "46")
				viper.Set("libsass_cflags", "-O3")
				viper.Set("verbose", true)
				viper.Set("cache", true)
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, filepath.Clean("/opt/node/bin/node"), cfg.RuntimePath)
				assert.Equal(t, filepath.Clean("/var/src/libsass"), cfg.SourceDir)
				assert.Equal(t, filepath.Join(pkgDir, "out", "binding.node"), cfg.BinaryPath)
				assert.Equal(t, "46", cfg.RuntimeABI)
				assert.Equal(t, "-O3", cfg.Knob("libsass_cflags"))
				assert.True(t, cfg.Verbose)
				assert.True(t, cfg.CacheEnabled)
			},
		},
		{
			name: "relative runtime path is resolved against the package",
			setupViper: func() {
				viper.Reset()
				viper.Set("package_dir", pkgDir)
				viper.Set("runtime_path", "bin/node")
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, filepath.Join(pkgDir, "bin", "node"), cfg.RuntimePath)
			},
		},
		{
			name: "force build accepts true",
			setupViper: func() {
				viper.Reset()
				viper.Set("package_dir", pkgDir)
				viper.Set("force_build", "true")
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.ForceBuild)
			},
		},
		{
			name: "invalid binary name",
			setupViper: func() {
				viper.Reset()
				viper.Set("package_dir", pkgDir)
				viper.Set("binary_name", "../escape")
			},
			wantErr:     true,
			errContains: "invalid binary name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupViper()

			cfg, err := Load()

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestParseForce(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"empty", "", false},
		{"true", "true", true},
		{"one", "1", true},
		{"false", "false", false},
		{"zero", "0", false},
		{"arbitrary value", "yes please", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseForce(tt.value))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("relative paths are resolved", func(t *testing.T) {
		cfg := &Config{
			PackageDir:  "pkg",
			SourceDir:   "src/libsass",
			SourceRepo:  DefaultSourceRepo,
			RuntimePath: "node",
			GypScript:   "gyp",
			CacheDir:    "cache",
		}

		require.NoError(t, cfg.Validate())
		assert.True(t, filepath.IsAbs(cfg.PackageDir))
		assert.True(t, filepath.IsAbs(cfg.SourceDir))
		assert.True(t, filepath.IsAbs(cfg.GypScript))
		assert.True(t, filepath.IsAbs(cfg.CacheDir))
		assert.Equal(t, "node", cfg.RuntimePath)
	})

	t.Run("binary name", func(t *testing.T) {
		tests := []struct {
			name    string
			binary  string
			wantErr bool
		}{
			{name: "unset uses the derived name", binary: ""},
			{name: "plain name", binary: "linux-x64-46"},
			{name: "path separator", binary: "../linux-x64-46", wantErr: true},
			{name: "dot", binary: ".", wantErr: true},
			{name: "parent", binary: "..", wantErr: true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := &Config{PackageDir: t.TempDir(), SourceRepo: DefaultSourceRepo, BinaryName: tt.binary}

				err := cfg.Validate()
				if tt.wantErr {
					assert.ErrorContains(t, err, "invalid binary name")
					return
				}

				assert.NoError(t, err)
				assert.Equal(t, tt.binary, cfg.BinaryName)
			})
		}
	})

	t.Run("missing repository", func(t *testing.T) {
		cfg := &Config{PackageDir: "."}

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source repository not specified")
	})
}
