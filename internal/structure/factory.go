package structure

import (
	"errors"
	"fmt"

	"github.com/kpackage-labs/kpackage/internal/metadata"
)

// Factory failure modes, distinguished for diagnostics only: callers treat
// all three uniformly as "no handler".
var (
	// ErrModuleLoad indicates the plugin module could not be loaded.
	ErrModuleLoad = errors.New("plugin module failed to load")
	// ErrNoFactory indicates the module loaded but exposes no factory entry point.
	ErrNoFactory = errors.New("plugin module has no factory")
	// ErrNilHandler indicates the factory ran but constructed nothing.
	ErrNilHandler = errors.New("factory constructed no handler")
)

// CreateFunc is a module's factory entry point. It receives the module's own
// declared metadata as construction arguments.
type CreateFunc func(md metadata.Record) Handler

// Module is a loaded plugin module.
type Module interface {
	// Factory returns the module's registered factory entry point, or false
	// if the module does not expose one.
	Factory() (CreateFunc, bool)
}

// ModuleLoader loads plugin modules from resolved file paths. The production
// backend wraps the native loading mechanism; tests substitute in-memory
// registries of modules.
type ModuleLoader interface {
	Load(path string) (Module, error)
}

// Factory constructs handlers from plugin modules through a ModuleLoader.
type Factory struct {
	modules ModuleLoader
}

// NewFactory returns a Factory backed by the given module loader. A nil
// loader falls back to the native backend.
func NewFactory(modules ModuleLoader) *Factory {
	if modules == nil {
		modules = NativeLoader()
	}
	return &Factory{modules: modules}
}

// Create loads the module at modulePath and asks its factory to construct a
// handler, passing the module's declared metadata as construction arguments.
// Every failure returns a nil handler and one of the sentinel errors above,
// wrapped with the module path; none of them is fatal to resolution.
func (f *Factory) Create(modulePath string, md metadata.Record) (Handler, error) {
	mod, err := f.modules.Load(modulePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModuleLoad, modulePath, err)
	}

	create, ok := mod.Factory()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoFactory, modulePath)
	}

	h := create(md)
	if h == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilHandler, modulePath)
	}
	return h, nil
}
