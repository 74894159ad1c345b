package installer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kpackage-labs/kpackage/internal/metadata"
)

// Sentinel errors callers branch on for exit-code mapping.
var (
	// ErrInvalidPackage indicates the source directory is not a package
	// (missing or malformed descriptor).
	ErrInvalidPackage = errors.New("not a valid package")
	// ErrAlreadyInstalled indicates the destination already exists.
	ErrAlreadyInstalled = errors.New("package already installed")
	// ErrNotInstalled indicates there is nothing to remove.
	ErrNotInstalled = errors.New("package is not installed")
)

// excludedNames are entries skipped while copying a package directory.
var excludedNames = map[string]bool{
	".git":      true,
	".DS_Store": true,
}

// Install copies the package at src into packageRoot under the plugin
// identifier declared in the package's descriptor, and returns that
// identifier. Installing over an existing package fails with
// ErrAlreadyInstalled; use Upgrade to replace.
func Install(src, packageRoot string) (string, error) {
	return install(src, packageRoot, false)
}

// Upgrade behaves like Install but replaces an existing installation.
func Upgrade(src, packageRoot string) (string, error) {
	return install(src, packageRoot, true)
}

func install(src, packageRoot string, replace bool) (string, error) {
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrInvalidPackage, src)
	}

	r, err := metadata.ParseDesktop(filepath.Join(src, metadata.DescriptorFileName))
	if err != nil || r.PluginID == "" {
		return "", fmt.Errorf("%w: no descriptor with a plugin identifier in %s", ErrInvalidPackage, src)
	}

	dst := filepath.Join(packageRoot, r.PluginID)
	if _, err := os.Stat(dst); err == nil {
		if !replace {
			return "", fmt.Errorf("%w: %s", ErrAlreadyInstalled, dst)
		}
		if err := os.RemoveAll(dst); err != nil {
			return "", fmt.Errorf("removing existing installation at %s: %w", dst, err)
		}
	}

	if err := copyDir(src, dst); err != nil {
		return "", fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return r.PluginID, nil
}

// Remove deletes an installed package directory by plugin identifier.
func Remove(pluginID, packageRoot string) error {
	dir := filepath.Join(packageRoot, pluginID)

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotInstalled, pluginID)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing %s: %w", dir, err)
	}
	return nil
}

// copyDir recursively copies src to dst, excluding entries in excludedNames.
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if excludedNames[entry.Name()] {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

// copyFile copies a single file preserving its mode.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
