package loader

import "github.com/kpackage-labs/kpackage/internal/structure"

// Package is a lightweight value pairing a structure handler with an
// optional root-path override. Packages are created fresh on every load and
// never cached; only the underlying handler is.
type Package struct {
	handler structure.Handler
	path    string
}

// NewPackage wraps a handler. A nil handler yields an invalid package.
func NewPackage(h structure.Handler) Package {
	return Package{handler: h}
}

// Valid reports whether the package carries a structure handler. An invalid
// package is the sole failure signal of LoadPackage; callers must check it.
func (p Package) Valid() bool {
	return p.handler != nil
}

// Structure returns the package's handler, nil for an invalid package.
func (p Package) Structure() structure.Handler {
	return p.handler
}

// SetPath overrides the package's root path.
func (p *Package) SetPath(path string) {
	p.path = path
}

// Path returns the root-path override, empty if unset.
func (p Package) Path() string {
	return p.path
}
