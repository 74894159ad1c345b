// Package metadata defines the plugin metadata record produced by package
// discovery. Records come from two sources with identical semantics: decoded
// entries of a binary kpluginindex.json file, or individual metadata.desktop
// descriptor files parsed from a directory tree. The plugin identifier is the
// matching key; the file name is the module or descriptor location.
package metadata
