package cli

import (
	"os"
	"path/filepath"

	"github.com/kpackage-labs/kpackage/internal/config"
	"github.com/kpackage-labs/kpackage/internal/loader"
)

// resolvePackageRoot picks the absolute package root a command operates on.
// An explicit --packageroot wins. Otherwise the root is derived from the
// format's structure handler (falling back to the format itself) and placed
// under the system data directory with --global, else under the user one.
func resolvePackageRoot(format, explicit string, global bool) string {
	if explicit != "" {
		return explicit
	}

	root := format
	if h := loader.Self().LoadPackageStructure(format); h != nil {
		if r := h.DefaultPackageRoot(); r != "" {
			root = r
		}
	}

	if global {
		return filepath.Join("/usr/share", root)
	}

	base := ""
	if dirs := config.DataDirs(); len(dirs) > 0 {
		base = dirs[0]
	}
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil {
			base = filepath.Join(home, ".local", "share")
		} else {
			base = "."
		}
	}
	return filepath.Join(base, root)
}
