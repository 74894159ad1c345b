// Package structure defines the format-specific handler contract and the
// factory that constructs handlers from dynamically loaded plugin modules.
// The module-loading mechanism sits behind the ModuleLoader interface so the
// resolution path can run against in-memory fakes.
package structure
