// Package loader implements the package loading registry. It resolves a
// package format identifier to its structure handler by consulting a
// liveness-checked cache, a built-in shortcut for the generic format, and
// two-tier discovery (index file, else directory scan) over the plugin
// search path, instantiating handlers through the structure factory.
//
// A process-wide singleton is available through Self; a hosting application
// may install its own registry with SetLoader exactly once, before first use.
package loader
