package loader

import (
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/kpackage-labs/kpackage/internal/config"
	"github.com/kpackage-labs/kpackage/internal/discover"
	"github.com/kpackage-labs/kpackage/internal/metadata"
	"github.com/kpackage-labs/kpackage/internal/structure"
)

// PluginSubDir is the fixed subdirectory probed for structure plugin modules
// inside each entry of the library search path.
const PluginSubDir = "kpackage/packagestructure"

// HookFunc lets a hosting application supply its own package resolution. It
// is consulted before standard discovery on every LoadPackage call and may
// return nil (or an invalid package) to fall through.
type HookFunc func(format string) *Package

// Loader resolves package formats to structure handlers. The zero value is
// not usable; construct with New.
type Loader struct {
	mu    sync.Mutex
	cache map[string]*cacheEntry

	hook      HookFunc
	isDefault bool

	pluginDirs func() []string
	dataDirs   func() []string
	factory    *structure.Factory
	log        *zap.Logger
}

// cacheEntry records one resolution outcome. A nil handle is a cached
// negative result: repeat lookups short-circuit without re-running
// discovery. A released handle reads as absent and forces re-resolution.
type cacheEntry struct {
	handle *structure.Handle
}

// Option configures a Loader.
type Option func(*Loader)

// WithHook installs the application's package resolution strategy.
func WithHook(hook HookFunc) Option {
	return func(l *Loader) { l.hook = hook }
}

// WithModuleLoader substitutes the plugin module-loading backend.
func WithModuleLoader(ml structure.ModuleLoader) Option {
	return func(l *Loader) { l.factory = structure.NewFactory(ml) }
}

// WithPluginDirs overrides the library search path.
func WithPluginDirs(dirs []string) Option {
	return func(l *Loader) { l.pluginDirs = func() []string { return dirs } }
}

// WithDataDirs overrides the data-location search path.
func WithDataDirs(dirs []string) Option {
	return func(l *Loader) { l.dataDirs = func() []string { return dirs } }
}

// WithLogger sets the diagnostics logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// New constructs a Loader with the default search paths and native module
// backend, then applies opts.
func New(opts ...Option) *Loader {
	l := &Loader{
		cache:      make(map[string]*cacheEntry),
		pluginDirs: config.PluginDirs,
		dataDirs:   config.DataDirs,
		factory:    structure.NewFactory(nil),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var (
	singletonMu sync.Mutex
	singleton   *Loader
)

// SetLoader installs the process-wide loader. The first installation wins,
// whether it happened here or lazily through Self; every later call is a
// no-op so a plugin loaded early cannot replace the application's loader.
func SetLoader(l *Loader) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton == nil {
		singleton = l
	}
}

// Self returns the process-wide loader, lazily constructing a default one if
// no application installed its own. The lazily created instance never
// consults its hook, so a plugin cannot spoof custom-loader behavior by
// being loaded before the host sets a loader.
func Self() *Loader {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton == nil {
		singleton = New()
		singleton.isDefault = true
	}
	return singleton
}

// LoadPackage returns a package of the given format. A non-default loader
// consults its hook first; a valid hook result bypasses discovery entirely.
// Otherwise the format's structure handler is resolved (populating the
// cache) and wrapped. The optional path is applied to whatever is returned.
// Failure is signalled by an invalid package, never an error.
func (l *Loader) LoadPackage(format, path string) Package {
	if !l.isDefault && l.hook != nil {
		if p := l.hook(format); p != nil && p.Valid() {
			if path != "" {
				p.SetPath(path)
			}
			return *p
		}
	}

	if format == "" {
		return Package{}
	}

	h := l.LoadPackageStructure(format)
	if h == nil {
		l.log.Warn("no structure handler for package format", zap.String("format", format))
		return Package{}
	}

	p := NewPackage(h)
	if path != "" {
		p.SetPath(path)
	}
	return p
}

// LoadPackageStructure resolves the structure handler for format, populating
// the cache as a side effect. It returns nil if resolution fails; the
// failure is cached so repeat lookups skip discovery.
func (l *Loader) LoadPackageStructure(format string) structure.Handler {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadStructureLocked(format)
}

func (l *Loader) loadStructureLocked(format string) structure.Handler {
	if format == "" {
		return nil
	}

	// Cache check. Liveness is tested on every read: a handler released
	// elsewhere reads as absent and its slot is evicted for re-resolution.
	// A cached negative result is returned as-is — formats that failed to
	// resolve once stay unresolved until process restart.
	if e, ok := l.cache[format]; ok {
		if e.handle == nil {
			return nil
		}
		if h, alive := e.handle.Get(); alive {
			return h
		}
		delete(l.cache, format)
	}

	// The reserved generic format resolves to the built-in handler without
	// touching the filesystem.
	if format == structure.GenericFormat {
		h := structure.NewGeneric()
		l.cache[format] = &cacheEntry{handle: structure.NewHandle(h)}
		return h
	}

	// Discovery: first directory in search-path order with a matching
	// plugin identifier wins; later directories are not consulted.
	md, found := l.findPlugin(format)

	var h structure.Handler
	if found {
		var err error
		h, err = l.factory.Create(md.FileName, md)
		if err != nil {
			l.log.Warn("could not load installer for package format",
				zap.String("format", format), zap.Error(err))
		}
	}

	// Store the outcome regardless of success so unresolvable formats
	// short-circuit at the cache check next time.
	if h == nil {
		l.cache[format] = &cacheEntry{}
	} else {
		l.cache[format] = &cacheEntry{handle: structure.NewHandle(h)}
	}
	return h
}

// findPlugin locates the plugin record whose identifier equals format,
// probing `<dir>/kpackage/packagestructure` for each library search path
// entry in order.
func (l *Loader) findPlugin(format string) (metadata.Record, bool) {
	for _, dir := range l.pluginDirs() {
		pluginDir := filepath.Join(dir, PluginSubDir)
		for _, r := range discover.List(pluginDir) {
			if r.PluginID == format {
				return r, true
			}
		}
	}
	return metadata.Record{}, false
}

// ListPackages returns every discoverable package record relevant to format.
// When root is empty it is taken from the format's resolved handler's
// default package root (resolving and caching the handler as a side effect),
// falling back to the format itself. Each data location contributes
// `<location>/<root>`: all valid index records when an index exists there,
// else scanned descriptors filtered by declared service types (the filter is
// skipped for an empty format). Results are concatenated in search-path
// order with no de-duplication across locations.
func (l *Loader) ListPackages(format, root string) []metadata.Record {
	actualRoot := root

	if actualRoot == "" {
		l.mu.Lock()
		h := l.loadStructureLocked(format)
		l.mu.Unlock()
		if h != nil {
			actualRoot = h.DefaultPackageRoot()
		}
	}
	if actualRoot == "" {
		actualRoot = format
	}

	var records []metadata.Record
	for _, datadir := range l.dataDirs() {
		dir := filepath.Join(datadir, actualRoot)

		if discover.HasIndex(dir) {
			// The index is authoritative for its directory: all valid
			// records are taken, the scanner is never consulted.
			indexed, err := discover.ReadIndex(dir)
			if err != nil {
				l.log.Warn("unreadable package index", zap.String("dir", dir), zap.Error(err))
				continue
			}
			records = append(records, indexed...)
			continue
		}

		scanned, err := discover.Scan(dir)
		if err != nil {
			continue
		}
		for _, r := range scanned {
			if format == "" || r.ServesFormat(format) {
				records = append(records, r)
			}
		}
	}

	return records
}
