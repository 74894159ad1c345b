// Package installer copies package directories into a package root and
// removes them again. The destination subdirectory is the plugin identifier
// declared in the package's descriptor.
package installer
