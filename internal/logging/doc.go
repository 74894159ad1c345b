// Package logging provides the zap logger construction shared by the CLI and
// the loader. The loader defaults to a no-op logger so library consumers stay
// silent unless they inject one.
package logging
