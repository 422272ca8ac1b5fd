package config

import (
	"os"
	"path/filepath"
)

// ConfigExtensions are the formats viper reads, in lookup order
var ConfigExtensions = []string{"yml", "yaml", "json", "toml"}

// localConfigBase is the name of a per-project config file without extension
const localConfigBase = ".sassbuild"

// localConfigNames lists the candidate file names in precedence order
func localConfigNames() []string {
	names := make([]string, len(ConfigExtensions))
	for i, ext := range ConfigExtensions {
		names[i] = localConfigBase + "." + ext
	}

	return names
}

// FindLocalConfig returns the nearest .sassbuild.* file at or above dir,
// or an empty string. Directories named like a config file are skipped.
func FindLocalConfig(dir string) string {
	names := localConfigNames()

	for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
		for _, name := range names {
			path := filepath.Join(d, name)

			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}

		if filepath.Dir(d) == d {
			return ""
		}
	}
}
