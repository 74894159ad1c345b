package structure

import "github.com/kpackage-labs/kpackage/internal/metadata"

// GenericFormat is the reserved format identifier resolved to the built-in
// generic handler without consulting plugin discovery.
const GenericFormat = "KPackage/Generic"

// Generic is the built-in handler for packages with no format-specific
// plugin. It accepts any package layout.
type Generic struct{}

// NewGeneric returns the built-in generic handler.
func NewGeneric() *Generic {
	return &Generic{}
}

// Metadata returns the synthetic record describing the built-in handler.
func (g *Generic) Metadata() metadata.Record {
	return metadata.Record{
		FileName:     "builtin",
		PluginID:     GenericFormat,
		Name:         "Generic package",
		ServiceTypes: []string{GenericFormat},
		Raw:          map[string]string{},
	}
}

// DefaultPackageRoot returns the shared root for generic packages.
func (g *Generic) DefaultPackageRoot() string {
	return "kpackage/generic"
}
