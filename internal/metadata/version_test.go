package metadata

import "testing"

func TestVersionAtLeast(t *testing.T) {
	tests := []struct {
		version string
		min     string
		want    bool
	}{
		{"1.2.0", "1.0.0", true},
		{"1.2.0", "1.2.0", true},
		{"1.2.0", "2.0.0", false},
		{"v2.1.0", "2.0.0", true},
		{"2.1.0", "v2.2.0", false},
		{"", "1.0.0", false},
		{"not-a-version", "1.0.0", false},
		{"1.0.0", "garbage", false},
	}

	for _, tt := range tests {
		r := Record{Version: tt.version}
		if got := r.VersionAtLeast(tt.min); got != tt.want {
			t.Errorf("VersionAtLeast(%q >= %q) = %v, want %v", tt.version, tt.min, got, tt.want)
		}
	}
}
