package structure

import (
	"plugin"

	"github.com/kpackage-labs/kpackage/internal/metadata"
)

// FactorySymbol is the exported symbol a plugin module must provide. Its
// type must be func(metadata.Record) Handler.
const FactorySymbol = "NewPackageStructure"

// nativeLoader loads plugin modules through the Go plugin mechanism.
type nativeLoader struct{}

// NativeLoader returns the production module-loading backend.
func NativeLoader() ModuleLoader {
	return nativeLoader{}
}

func (nativeLoader) Load(path string) (Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return nativeModule{p: p}, nil
}

type nativeModule struct {
	p *plugin.Plugin
}

func (m nativeModule) Factory() (CreateFunc, bool) {
	sym, err := m.p.Lookup(FactorySymbol)
	if err != nil {
		return nil, false
	}

	create, ok := sym.(func(metadata.Record) Handler)
	if !ok {
		return nil, false
	}
	return CreateFunc(create), true
}
