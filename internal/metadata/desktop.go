package metadata

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// DescriptorFileName is the fixed name of per-plugin descriptor files.
const DescriptorFileName = "metadata.desktop"

const desktopSection = "Desktop Entry"

// ParseDesktop reads a metadata.desktop descriptor and builds a Record from
// its [Desktop Entry] section. The descriptor path itself becomes the
// record's FileName unless the descriptor declares one explicitly.
func ParseDesktop(path string) (Record, error) {
	f, err := ini.Load(path)
	if err != nil {
		return Record{}, fmt.Errorf("reading descriptor %s: %w", path, err)
	}

	sec := f.Section(desktopSection)
	raw := make(map[string]string, len(sec.Keys()))
	for _, k := range sec.Keys() {
		raw[k.Name()] = k.Value()
	}

	r := Record{
		FileName:     raw[KeyFileName],
		PluginID:     raw[KeyPluginName],
		Name:         raw[KeyName],
		Description:  raw[KeyComment],
		Version:      raw[KeyVersion],
		Category:     raw[KeyCategory],
		ServiceTypes: splitList(raw[KeyServiceTypes]),
		ParentApp:    raw[KeyParentApp],
		Raw:          raw,
	}
	if r.FileName == "" {
		r.FileName = path
	}
	return r, nil
}
