package metadata

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeDescriptor(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DescriptorFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseDesktop(t *testing.T) {
	dir := t.TempDir()
	path := writeDescriptor(t, dir, `[Desktop Entry]
Name=Example Wallpaper
Comment=A test wallpaper package
X-KDE-PluginInfo-Name=org.example.wallpaper
X-KDE-PluginInfo-Version=1.2.0
X-KDE-PluginInfo-Category=Graphics
X-KDE-ServiceTypes=Plasma/Wallpaper;KPackage/Generic
X-KDE-ParentApp=plasmashell
`)

	r, err := ParseDesktop(path)
	if err != nil {
		t.Fatalf("ParseDesktop: %v", err)
	}

	if r.PluginID != "org.example.wallpaper" {
		t.Errorf("PluginID = %q, want %q", r.PluginID, "org.example.wallpaper")
	}
	if r.Name != "Example Wallpaper" {
		t.Errorf("Name = %q, want %q", r.Name, "Example Wallpaper")
	}
	if r.Description != "A test wallpaper package" {
		t.Errorf("Description = %q, want %q", r.Description, "A test wallpaper package")
	}
	if r.Version != "1.2.0" {
		t.Errorf("Version = %q, want %q", r.Version, "1.2.0")
	}
	if r.ParentApp != "plasmashell" {
		t.Errorf("ParentApp = %q, want %q", r.ParentApp, "plasmashell")
	}
	want := []string{"Plasma/Wallpaper", "KPackage/Generic"}
	if !reflect.DeepEqual(r.ServiceTypes, want) {
		t.Errorf("ServiceTypes = %v, want %v", r.ServiceTypes, want)
	}
	// The descriptor declares no FileName, so the descriptor path stands in.
	if r.FileName != path {
		t.Errorf("FileName = %q, want descriptor path %q", r.FileName, path)
	}
	if !r.Valid() {
		t.Error("record should be valid")
	}
}

func TestParseDesktopMissingIdentifier(t *testing.T) {
	dir := t.TempDir()
	path := writeDescriptor(t, dir, `[Desktop Entry]
Name=No identifier here
`)

	r, err := ParseDesktop(path)
	if err != nil {
		t.Fatalf("ParseDesktop: %v", err)
	}
	if r.Valid() {
		t.Error("record without a plugin identifier should be invalid")
	}
}

func TestParseDesktopMissingFile(t *testing.T) {
	if _, err := ParseDesktop(filepath.Join(t.TempDir(), "nope.desktop")); err == nil {
		t.Error("expected error for missing descriptor")
	}
}

func TestServesFormat(t *testing.T) {
	r := Record{ServiceTypes: []string{"Plasma/Wallpaper", "KPackage/Generic"}}

	if !r.ServesFormat("Plasma/Wallpaper") {
		t.Error("ServesFormat(Plasma/Wallpaper) = false, want true")
	}
	if r.ServesFormat("plasma/wallpaper") {
		t.Error("format matching must be case-sensitive")
	}
	if r.ServesFormat("Plasma/Theme") {
		t.Error("ServesFormat(Plasma/Theme) = true, want false")
	}
}

func TestFromIndexObjectRoundTrip(t *testing.T) {
	r := Record{
		FileName:     "org.example.so",
		PluginID:     "org.example",
		Name:         "Example",
		ServiceTypes: []string{"Plasma/Theme"},
		Raw:          map[string]string{"Name": "Example", "X-Custom": "yes"},
	}

	got := FromIndexObject(r.IndexObject())
	if got.PluginID != r.PluginID || got.FileName != r.FileName {
		t.Errorf("round trip lost identity: got %+v", got)
	}
	if !reflect.DeepEqual(got.ServiceTypes, r.ServiceTypes) {
		t.Errorf("ServiceTypes = %v, want %v", got.ServiceTypes, r.ServiceTypes)
	}
	if got.Raw["X-Custom"] != "yes" {
		t.Errorf("arbitrary payload not preserved: %v", got.Raw)
	}
}
