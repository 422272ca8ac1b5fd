package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(configDir string) *Loader {
	return &Loader{
		userConfigDir: func() (string, error) { return configDir, nil },
	}
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.userConfigDir)
}

func TestLoader_SetupViperDefaults(t *testing.T) {
	viper.Reset()
	loader := NewLoader()
	loader.setupViperDefaults()

	assert.Equal(t, "node", viper.GetString("runtime_path"))
	assert.Equal(t, "src/libsass", viper.GetString("source_dir"))
	assert.Equal(t, "git@github.com:sass/libsass.git", viper.GetString("source_repo"))
	assert.Equal(t, false, viper.GetBool("verbose"))
	assert.Equal(t, false, viper.GetBool("cache"))
}

func TestLoader_LoadGlobalConfig(t *testing.T) {
	tempDir := t.TempDir()
	globalDir := filepath.Join(tempDir, "sassbuild")
	err := os.Mkdir(globalDir, 0o755)
	require.NoError(t, err)

	t.Run("loads yaml config", func(t *testing.T) {
		viper.Reset()
		configPath := filepath.Join(globalDir, "config.yml")
		configContent := `runtime_path: "/usr/local/bin/node"
verbose: true`
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		newTestLoader(tempDir).loadGlobalConfig()

		assert.Equal(t, "/usr/local/bin/node", viper.GetString("runtime_path"))
		assert.Equal(t, true, viper.GetBool("verbose"))
	})

	t.Run("loads json config", func(t *testing.T) {
		viper.Reset()
		os.Remove(filepath.Join(globalDir, "config.yml"))

		configPath := filepath.Join(globalDir, "config.json")
		err := os.WriteFile(configPath, []byte(`{"runtime_abi": "47"}`), 0o644)
		require.NoError(t, err)

		newTestLoader(tempDir).loadGlobalConfig()

		assert.Equal(t, "47", viper.GetString("runtime_abi"))
	})

	t.Run("handles missing config dir gracefully", func(t *testing.T) {
		viper.Reset()

		loader := newTestLoader("")
		assert.NotPanics(t, func() {
			loader.loadGlobalConfig()
		})
	})
}

func TestLoader_LoadLocalConfig(t *testing.T) {
	t.Run("walks up directory tree to find config", func(t *testing.T) {
		viper.Reset()

		tempDir := t.TempDir()
		subDir := filepath.Join(tempDir, "subdir", "nested")
		err := os.MkdirAll(subDir, 0o755)
		require.NoError(t, err)

		configPath := filepath.Join(tempDir, ".sassbuild.yml")
		err = os.WriteFile(configPath, []byte(`gyp_script: "tools/gyp"`), 0o644)
		require.NoError(t, err)

		NewLoader().loadLocalConfig(subDir)

		assert.Equal(t, "tools/gyp", viper.GetString("gyp_script"))
	})

	t.Run("package_dir is relative to the config file", func(t *testing.T) {
		viper.Reset()

		tempDir := t.TempDir()
		subDir := filepath.Join(tempDir, "work")
		err := os.MkdirAll(subDir, 0o755)
		require.NoError(t, err)

		configPath := filepath.Join(tempDir, ".sassbuild.yml")
		err = os.WriteFile(configPath, []byte(`package_dir: "node-sass"`), 0o644)
		require.NoError(t, err)

		NewLoader().loadLocalConfig(subDir)

		assert.Equal(t, filepath.Join(tempDir, "node-sass"), viper.GetString("package_dir"))
	})

	t.Run("handles empty work dir", func(t *testing.T) {
		viper.Reset()

		assert.NotPanics(t, func() {
			NewLoader().loadLocalConfig("")
		})
	})
}

func TestLoader_BindEnvironment(t *testing.T) {
	viper.Reset()

	t.Setenv("SASS_FORCE_BUILD", "1")
	t.Setenv("LIBSASS_EXT", "no")
	t.Setenv("LIBSASS_LDFLAGS", "-L/opt/lib")
	t.Setenv("SASS_BINARY_NAME", "linux-x64-47")

	NewLoader().bindEnvironment()

	assert.Equal(t, "1", viper.GetString("force_build"))
	assert.Equal(t, "no", viper.GetString("libsass_ext"))
	assert.Equal(t, "-L/opt/lib", viper.GetString("libsass_ldflags"))
	assert.Equal(t, "", viper.GetString("libsass_library"))
	assert.Equal(t, "linux-x64-47", viper.GetString("binary_name"))
}

func TestLoader_BindCommandFlags(t *testing.T) {
	viper.Reset()

	cmd := &cobra.Command{}
	cmd.Flags().String("cache-dir", "", "Cache directory")
	cmd.Flags().Set("cache-dir", "/tmp/sassbuild-cache")

	loader := NewLoader()
	loader.bindCommandFlags(cmd)

	assert.Equal(t, "/tmp/sassbuild-cache", viper.GetString("cache_dir"))

	assert.NotPanics(t, func() {
		loader.bindCommandFlags(nil)
	})
}

func TestLoader_LoadForBuild_Integration(t *testing.T) {
	t.Run("environment overrides local overrides global", func(t *testing.T) {
		viper.Reset()

		globalBase := t.TempDir()
		globalDir := filepath.Join(globalBase, "sassbuild")
		err := os.Mkdir(globalDir, 0o755)
		require.NoError(t, err)

		globalContent := `runtime_path: "/global/node"
libsass_cflags: "-O1"
verbose: false`
		err = os.WriteFile(filepath.Join(globalDir, "config.yml"), []byte(globalContent), 0o644)
		require.NoError(t, err)

		localDir := t.TempDir()
		localContent := `libsass_cflags: "-O2"
verbose: true`
		err = os.WriteFile(filepath.Join(localDir, ".sassbuild.yml"), []byte(localContent), 0o644)
		require.NoError(t, err)

		t.Setenv("LIBSASS_CFLAGS", "-O3")

		cfg, err := newTestLoader(globalBase).LoadForBuild(nil, localDir)
		require.NoError(t, err)

		// Environment wins
		assert.Equal(t, "-O3", cfg.Knob("libsass_cflags"))
		// Local overrides global
		assert.True(t, cfg.Verbose)
		// Global used as base
		assert.Equal(t, filepath.Clean("/global/node"), cfg.RuntimePath)
	})
}
