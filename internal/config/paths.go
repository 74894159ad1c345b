package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kpackage-labs/kpackage/internal/branding"
	"github.com/spf13/viper"
)

// PluginDirs returns the library search path probed for structure plugin
// modules, highest priority first. Resolution order: the KPACKAGE_PLUGIN_PATH
// environment variable (os.PathListSeparator-delimited), then the plugin_dirs
// config key, then the built-in defaults (~/.kpackage/lib plus the system
// library directories).
func PluginDirs() []string {
	if v := os.Getenv(branding.EnvVar("PLUGIN_PATH")); v != "" {
		return splitPathList(v)
	}
	if dirs := viper.GetStringSlice(KeyPluginDirs); len(dirs) > 0 {
		return dirs
	}

	dirs := []string{filepath.Join(Dir(), "lib")}
	dirs = append(dirs, "/usr/local/lib", "/usr/lib")
	return dirs
}

// DataDirs returns the data-location search path probed for installed package
// content, highest priority first. Resolution order: the KPACKAGE_DATA_PATH
// environment variable, then the data_dirs config key, then the XDG
// conventions (XDG_DATA_HOME and XDG_DATA_DIRS with their standard fallbacks).
func DataDirs() []string {
	if v := os.Getenv(branding.EnvVar("DATA_PATH")); v != "" {
		return splitPathList(v)
	}
	if dirs := viper.GetStringSlice(KeyDataDirs); len(dirs) > 0 {
		return dirs
	}

	var dirs []string
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		dirs = append(dirs, v)
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share"))
	}
	if v := os.Getenv("XDG_DATA_DIRS"); v != "" {
		dirs = append(dirs, splitPathList(v)...)
	} else {
		dirs = append(dirs, "/usr/local/share", "/usr/share")
	}
	return dirs
}

// splitPathList splits an os.PathListSeparator-delimited list, dropping
// empty entries.
func splitPathList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, string(os.PathListSeparator)) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
