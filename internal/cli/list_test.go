package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kpackage-labs/kpackage/internal/metadata"
)

func TestListCommand(t *testing.T) {
	data := t.TempDir()
	pkgDir := filepath.Join(data, "foo.bar", "pkg-a")
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		t.Fatal(err)
	}
	descriptor := `[Desktop Entry]
Name=Package A
X-KDE-PluginInfo-Name=org.example.a
X-KDE-PluginInfo-Version=1.0.0
X-KDE-ServiceTypes=foo.bar
`
	if err := os.WriteFile(filepath.Join(pkgDir, metadata.DescriptorFileName), []byte(descriptor), 0644); err != nil {
		t.Fatal(err)
	}

	// Steer both search paths away from the host system.
	t.Setenv("KPACKAGE_DATA_PATH", data)
	t.Setenv("KPACKAGE_PLUGIN_PATH", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"list", "-t", "foo.bar"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("list: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "org.example.a") {
		t.Errorf("list output missing package id:\n%s", got)
	}
	if !strings.Contains(got, "Package A") {
		t.Errorf("list output missing package name:\n%s", got)
	}
}
