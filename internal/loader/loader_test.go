package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/kpackage-labs/kpackage/internal/discover"
	"github.com/kpackage-labs/kpackage/internal/metadata"
	"github.com/kpackage-labs/kpackage/internal/structure"
)

type fakeHandler struct {
	md   metadata.Record
	root string
}

func (h *fakeHandler) Metadata() metadata.Record  { return h.md }
func (h *fakeHandler) DefaultPackageRoot() string { return h.root }

type fakeModule struct {
	create structure.CreateFunc
}

func (m fakeModule) Factory() (structure.CreateFunc, bool) {
	if m.create == nil {
		return nil, false
	}
	return m.create, true
}

// fakeModules is an in-memory module registry counting load attempts.
type fakeModules struct {
	modules map[string]structure.Module
	calls   int
}

func (f *fakeModules) Load(path string) (structure.Module, error) {
	f.calls++
	m, ok := f.modules[path]
	if !ok {
		return nil, errors.New("no such module")
	}
	return m, nil
}

func handlerModule(root string) structure.Module {
	return fakeModule{create: func(md metadata.Record) structure.Handler {
		return &fakeHandler{md: md, root: root}
	}}
}

// writePluginDescriptor places a structure-plugin descriptor into the plugin
// subdirectory under baseDir, declaring moduleFile as its module.
func writePluginDescriptor(t *testing.T, baseDir, pluginID, moduleFile string) {
	t.Helper()
	dir := filepath.Join(baseDir, PluginSubDir, pluginID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "[Desktop Entry]\nName=" + pluginID +
		"\nX-KDE-PluginInfo-Name=" + pluginID +
		"\nFileName=" + moduleFile + "\n"
	if err := os.WriteFile(filepath.Join(dir, metadata.DescriptorFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// writePluginIndex places a metadata index into the plugin subdirectory.
func writePluginIndex(t *testing.T, baseDir string, objs []map[string]any) {
	t.Helper()
	dir := filepath.Join(baseDir, PluginSubDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	data, err := msgpack.Marshal(objs)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, discover.IndexFileName), data, 0644); err != nil {
		t.Fatal(err)
	}
}

func writeDataDescriptor(t *testing.T, dir, pluginID, serviceTypes string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "[Desktop Entry]\nName=" + pluginID + "\nX-KDE-PluginInfo-Name=" + pluginID + "\n"
	if serviceTypes != "" {
		content += "X-KDE-ServiceTypes=" + serviceTypes + "\n"
	}
	if err := os.WriteFile(filepath.Join(dir, metadata.DescriptorFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func resetSingleton() {
	singletonMu.Lock()
	singleton = nil
	singletonMu.Unlock()
}

func newTestLoader(t *testing.T, modules *fakeModules, pluginDirs, dataDirs []string) *Loader {
	t.Helper()
	return New(
		WithModuleLoader(modules),
		WithPluginDirs(pluginDirs),
		WithDataDirs(dataDirs),
	)
}

func TestLoadPackageEmptyFormat(t *testing.T) {
	base := t.TempDir()
	writePluginDescriptor(t, base, "foo.bar", "foo.so")
	fm := &fakeModules{modules: map[string]structure.Module{"foo.so": handlerModule("foo/packages")}}
	l := newTestLoader(t, fm, []string{base}, nil)

	if p := l.LoadPackage("", ""); p.Valid() {
		t.Error("LoadPackage(\"\") must be invalid regardless of installed plugins")
	}
}

func TestLoadPackageUnresolvedFormat(t *testing.T) {
	l := newTestLoader(t, &fakeModules{}, []string{t.TempDir()}, nil)

	if p := l.LoadPackage("never.registered", ""); p.Valid() {
		t.Error("LoadPackage for an unknown format must be invalid")
	}
	if h := l.LoadPackageStructure("never.registered"); h != nil {
		t.Error("LoadPackageStructure for an unknown format must be nil")
	}
}

func TestGenericFormatBypassesDiscovery(t *testing.T) {
	base := t.TempDir()
	// Even a plugin claiming the reserved identifier must not be consulted.
	writePluginDescriptor(t, base, structure.GenericFormat, "evil.so")
	fm := &fakeModules{modules: map[string]structure.Module{"evil.so": handlerModule("evil")}}
	l := newTestLoader(t, fm, []string{base}, nil)

	h := l.LoadPackageStructure(structure.GenericFormat)
	if h == nil {
		t.Fatal("generic format must always resolve")
	}
	if _, ok := h.(*structure.Generic); !ok {
		t.Errorf("generic format resolved to %T, want *structure.Generic", h)
	}
	if fm.calls != 0 {
		t.Errorf("module loader consulted %d times for the built-in format, want 0", fm.calls)
	}
}

func TestLoadPackageGenericScenario(t *testing.T) {
	// No plugins installed anywhere.
	l := newTestLoader(t, &fakeModules{}, []string{t.TempDir()}, nil)

	p := l.LoadPackage(structure.GenericFormat, "")
	if !p.Valid() {
		t.Fatal("generic package must be valid with no plugins installed")
	}
	if p.Path() != "" {
		t.Errorf("Path = %q, want unset", p.Path())
	}
}

func TestLoadPackageAppliesPath(t *testing.T) {
	l := newTestLoader(t, &fakeModules{}, nil, nil)

	p := l.LoadPackage(structure.GenericFormat, "/srv/pkgs/my-theme")
	if !p.Valid() {
		t.Fatal("expected valid package")
	}
	if p.Path() != "/srv/pkgs/my-theme" {
		t.Errorf("Path = %q, want %q", p.Path(), "/srv/pkgs/my-theme")
	}
}

func TestSetLoaderOneShot(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	first := New()
	second := New()

	SetLoader(first)
	SetLoader(second)

	if Self() != first {
		t.Error("second SetLoader must have no observable effect")
	}
}

func TestSetLoaderAfterLazyDefaultIsNoOp(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	lazy := Self()
	SetLoader(New())

	if Self() != lazy {
		t.Error("SetLoader after lazy construction must be a no-op")
	}
}

func TestDefaultLoaderSkipsHook(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	hookCalls := 0
	l := New(WithPluginDirs(nil), WithHook(func(format string) *Package {
		hookCalls++
		p := NewPackage(&fakeHandler{})
		return &p
	}))
	// Mark as the lazily-created default, as Self does.
	l.isDefault = true

	if p := l.LoadPackage("anything", ""); p.Valid() {
		t.Error("default loader must fall through to standard resolution")
	}
	if hookCalls != 0 {
		t.Errorf("hook consulted %d times on the default loader, want 0", hookCalls)
	}
}

func TestHookBypassesDiscovery(t *testing.T) {
	fm := &fakeModules{}
	hooked := &fakeHandler{root: "hooked/packages"}
	l := New(
		WithModuleLoader(fm),
		WithPluginDirs(nil),
		WithHook(func(format string) *Package {
			if format != "custom.format" {
				return nil
			}
			p := NewPackage(hooked)
			return &p
		}),
	)

	p := l.LoadPackage("custom.format", "/opt/custom")
	if !p.Valid() {
		t.Fatal("hook result must be returned")
	}
	if p.Structure() != hooked {
		t.Error("package does not wrap the hook's handler")
	}
	if p.Path() != "/opt/custom" {
		t.Errorf("explicit path not applied to hook result: %q", p.Path())
	}
	if fm.calls != 0 {
		t.Error("standard discovery must be bypassed when the hook succeeds")
	}

	// A hook miss falls through to standard resolution.
	if p := l.LoadPackage("other.format", ""); p.Valid() {
		t.Error("hook miss for unresolvable format must yield invalid package")
	}
}

func TestCachingIdempotence(t *testing.T) {
	base := t.TempDir()
	writePluginDescriptor(t, base, "foo.bar", "foo.so")
	fm := &fakeModules{modules: map[string]structure.Module{"foo.so": handlerModule("foo/packages")}}
	l := newTestLoader(t, fm, []string{base}, nil)

	h1 := l.LoadPackageStructure("foo.bar")
	if h1 == nil {
		t.Fatal("expected foo.bar to resolve")
	}

	// Make any repeated discovery visible: the plugin tree vanishes.
	if err := os.RemoveAll(base); err != nil {
		t.Fatal(err)
	}

	h2 := l.LoadPackageStructure("foo.bar")
	if h2 != h1 {
		t.Error("second lookup must return the same cached handler")
	}
	if fm.calls != 1 {
		t.Errorf("module loaded %d times, want 1", fm.calls)
	}
}

func TestNegativeResultCaching(t *testing.T) {
	base := t.TempDir()
	writePluginIndex(t, base, []map[string]any{
		{"FileName": "foo.so", "X-KDE-PluginInfo-Name": "foo.bar"},
	})
	// foo.so is not loadable.
	fm := &fakeModules{}
	l := newTestLoader(t, fm, []string{base}, nil)

	if h := l.LoadPackageStructure("foo.bar"); h != nil {
		t.Fatal("unloadable module must yield nil")
	}
	if fm.calls != 1 {
		t.Fatalf("module load attempted %d times, want 1", fm.calls)
	}

	// Even with a now-loadable module behind the same index entry, the
	// cached failure stands until process restart.
	fm.modules = map[string]structure.Module{"foo.so": handlerModule("foo/packages")}
	if h := l.LoadPackageStructure("foo.bar"); h != nil {
		t.Error("negative result must be cached")
	}
	if fm.calls != 1 {
		t.Errorf("discovery re-ran after cached failure: %d load attempts", fm.calls)
	}
}

func TestReleasedHandlerForcesReResolve(t *testing.T) {
	base := t.TempDir()
	writePluginDescriptor(t, base, "foo.bar", "foo.so")
	fm := &fakeModules{modules: map[string]structure.Module{"foo.so": handlerModule("foo/packages")}}
	l := newTestLoader(t, fm, []string{base}, nil)

	h1 := l.LoadPackageStructure("foo.bar")
	if h1 == nil {
		t.Fatal("expected foo.bar to resolve")
	}

	// Simulate external destruction of the cached handler.
	l.mu.Lock()
	l.cache["foo.bar"].handle.Release()
	l.mu.Unlock()

	h2 := l.LoadPackageStructure("foo.bar")
	if h2 == nil {
		t.Fatal("released entry must be re-resolved, not returned dead")
	}
	if h2 == h1 {
		t.Error("re-resolution must construct a fresh handler")
	}
	if fm.calls != 2 {
		t.Errorf("module loaded %d times, want 2", fm.calls)
	}
}

func TestFirstSearchPathEntryWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writePluginDescriptor(t, first, "foo.bar", "first.so")
	writePluginDescriptor(t, second, "foo.bar", "second.so")
	fm := &fakeModules{modules: map[string]structure.Module{
		"first.so":  handlerModule("first/packages"),
		"second.so": handlerModule("second/packages"),
	}}
	l := newTestLoader(t, fm, []string{first, second}, nil)

	h := l.LoadPackageStructure("foo.bar")
	if h == nil {
		t.Fatal("expected foo.bar to resolve")
	}
	if got := h.DefaultPackageRoot(); got != "first/packages" {
		t.Errorf("resolved from %q, want the first search-path entry", got)
	}
}

func TestListPackagesRootFallsBackToFormat(t *testing.T) {
	data := t.TempDir()
	writeDataDescriptor(t, filepath.Join(data, "foo.bar", "pkg-a"), "org.example.a", "foo.bar")
	l := newTestLoader(t, &fakeModules{}, nil, []string{data})

	records := l.ListPackages("foo.bar", "")
	if len(records) != 1 {
		t.Fatalf("ListPackages returned %d records, want 1", len(records))
	}
	if records[0].PluginID != "org.example.a" {
		t.Errorf("PluginID = %q, want %q", records[0].PluginID, "org.example.a")
	}
}

func TestListPackagesUsesHandlerRoot(t *testing.T) {
	base := t.TempDir()
	data := t.TempDir()
	writePluginDescriptor(t, base, "foo.bar", "foo.so")
	fm := &fakeModules{modules: map[string]structure.Module{"foo.so": handlerModule("foo/packages")}}
	writeDataDescriptor(t, filepath.Join(data, "foo", "packages", "pkg-a"), "org.example.a", "foo.bar")
	l := newTestLoader(t, fm, []string{base}, []string{data})

	records := l.ListPackages("foo.bar", "")
	if len(records) != 1 {
		t.Fatalf("ListPackages returned %d records, want 1", len(records))
	}

	// Resolving the handler for the root must have populated the cache.
	if l.LoadPackageStructure("foo.bar") == nil {
		t.Error("handler should be cached as a side effect of ListPackages")
	}
	if fm.calls != 1 {
		t.Errorf("module loaded %d times, want 1", fm.calls)
	}
}

func TestListPackagesExplicitRoot(t *testing.T) {
	data := t.TempDir()
	writeDataDescriptor(t, filepath.Join(data, "custom", "pkg-a"), "org.example.a", "foo.bar")
	l := newTestLoader(t, &fakeModules{}, nil, []string{data})

	records := l.ListPackages("foo.bar", "custom")
	if len(records) != 1 {
		t.Fatalf("ListPackages returned %d records, want 1", len(records))
	}
}

func TestListPackagesFiltersByServiceType(t *testing.T) {
	data := t.TempDir()
	writeDataDescriptor(t, filepath.Join(data, "foo.bar", "pkg-a"), "org.example.a", "foo.bar")
	writeDataDescriptor(t, filepath.Join(data, "foo.bar", "pkg-b"), "org.example.b", "other.format")
	l := newTestLoader(t, &fakeModules{}, nil, []string{data})

	records := l.ListPackages("foo.bar", "")
	if len(records) != 1 {
		t.Fatalf("ListPackages returned %d records, want 1", len(records))
	}
	if records[0].PluginID != "org.example.a" {
		t.Errorf("PluginID = %q, want %q", records[0].PluginID, "org.example.a")
	}

	// An empty format skips the service-type filter.
	all := l.ListPackages("", "foo.bar")
	if len(all) != 2 {
		t.Errorf("ListPackages with empty format returned %d records, want 2", len(all))
	}
}

func TestListPackagesAggregatesWithoutDeduplication(t *testing.T) {
	dataA := t.TempDir()
	dataB := t.TempDir()
	writeDataDescriptor(t, filepath.Join(dataA, "foo.bar", "pkg"), "org.example.dup", "foo.bar")
	writeDataDescriptor(t, filepath.Join(dataB, "foo.bar", "pkg"), "org.example.dup", "foo.bar")
	l := newTestLoader(t, &fakeModules{}, nil, []string{dataA, dataB})

	records := l.ListPackages("foo.bar", "")
	if len(records) != 2 {
		t.Fatalf("ListPackages returned %d records, want 2 (no de-duplication across locations)", len(records))
	}
}

func TestListPackagesIndexIsAuthoritative(t *testing.T) {
	data := t.TempDir()
	root := filepath.Join(data, "foo.bar")
	writeDataDescriptor(t, filepath.Join(root, "pkg-a"), "org.example.a", "foo.bar")

	// An empty index hides the descriptor entirely.
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	empty, err := msgpack.Marshal([]map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, discover.IndexFileName), empty, 0644); err != nil {
		t.Fatal(err)
	}

	l := newTestLoader(t, &fakeModules{}, nil, []string{data})
	if records := l.ListPackages("foo.bar", ""); len(records) != 0 {
		t.Errorf("ListPackages returned %d records despite an empty index, want 0", len(records))
	}
}

func TestListPackagesIndexRecordsAreNotFiltered(t *testing.T) {
	data := t.TempDir()
	root := filepath.Join(data, "foo.bar")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	// Indexed records are taken wholesale, service types notwithstanding.
	objs := []map[string]any{
		{"FileName": "a.desktop", "X-KDE-PluginInfo-Name": "org.example.a", "X-KDE-ServiceTypes": "other.format"},
	}
	data2, err := msgpack.Marshal(objs)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, discover.IndexFileName), data2, 0644); err != nil {
		t.Fatal(err)
	}

	l := newTestLoader(t, &fakeModules{}, nil, []string{data})
	records := l.ListPackages("foo.bar", "")
	if len(records) != 1 {
		t.Fatalf("ListPackages returned %d records, want 1", len(records))
	}
}
