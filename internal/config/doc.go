// Package config manages user-level settings stored at ~/.kpackage/config.yaml.
// It provides functions to load, read, and write configuration keys, and
// resolves the plugin library search path and the data-location search path
// used for package discovery.
package config
