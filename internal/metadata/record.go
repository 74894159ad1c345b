package metadata

import (
	"fmt"
	"strings"
)

// Descriptor keys recognized in metadata.desktop files and index objects.
const (
	KeyFileName     = "FileName"
	KeyName         = "Name"
	KeyComment      = "Comment"
	KeyPluginName   = "X-KDE-PluginInfo-Name"
	KeyVersion      = "X-KDE-PluginInfo-Version"
	KeyCategory     = "X-KDE-PluginInfo-Category"
	KeyServiceTypes = "X-KDE-ServiceTypes"
	KeyParentApp    = "X-KDE-ParentApp"
)

// Record describes one discovered plugin. A Record is a transient value:
// discovery results are rebuilt on every listing and never cached.
type Record struct {
	FileName     string            // module or descriptor location on disk
	PluginID     string            // unique plugin identifier, the matching key
	Name         string            // display name
	Description  string            // one-line description
	Version      string            // declared plugin version
	Category     string            // presentation category label
	ServiceTypes []string          // formats this plugin serves
	ParentApp    string            // constraining parent application, if any
	Raw          map[string]string // full descriptor payload
}

// Valid reports whether the record carries the required fields.
func (r Record) Valid() bool {
	return r.PluginID != "" && r.FileName != ""
}

// ServesFormat reports whether format appears in the record's declared
// service types. Matching is case-sensitive, as format identifiers are.
func (r Record) ServesFormat(format string) bool {
	for _, st := range r.ServiceTypes {
		if st == format {
			return true
		}
	}
	return false
}

// FromIndexObject builds a Record from one decoded index entry. The FileName
// field locates the plugin module; the remaining fields are optional metadata.
func FromIndexObject(obj map[string]any) Record {
	raw := make(map[string]string, len(obj))
	for k, v := range obj {
		raw[k] = toString(v)
	}

	return Record{
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
}

// IndexObject returns the record in the shape stored in an index file.
func (r Record) IndexObject() map[string]any {
	obj := make(map[string]any, len(r.Raw)+2)
	for k, v := range r.Raw {
		obj[k] = v
	}
	obj[KeyFileName] = r.FileName
	obj[KeyPluginName] = r.PluginID
	if len(r.ServiceTypes) > 0 {
		obj[KeyServiceTypes] = strings.Join(r.ServiceTypes, ";")
	}
	return obj
}

// splitList splits a semicolon- or comma-delimited descriptor list value.
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	sep := ";"
	if !strings.Contains(v, ";") && strings.Contains(v, ",") {
		sep = ","
	}
	var out []string
	for _, s := range strings.Split(v, sep) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ";")
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
