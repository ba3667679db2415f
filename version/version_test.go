package version

import (
	"runtime/debug"
	"testing"
)

func TestBuildHash(t *testing.T) {
	tests := []struct {
		name     string
		settings []debug.BuildSetting
		want     string
	}{
		{"none", nil, ""},
		{"clean", []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}}, "0123456"},
		{"dirty", []debug.BuildSetting{
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.revision", Value: "0123456789abcdef"},
		}, "0123456-dirty"},
		{"short", []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}}, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildFromSettings("go1.24.0", tt.settings).Hash(); got != tt.want {
				t.Errorf("Hash() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildString(t *testing.T) {
	b := buildFromSettings("go1.24.0", nil)
	if got := b.String(); Version == "" && got != "devel (go1.24.0)" {
		t.Errorf("String() = %q, want devel (go1.24.0)", got)
	}
	if got := orHash("v1.2.3", b); got != "v1.2.3" {
		t.Errorf("orHash with version = %q, want v1.2.3", got)
	}
}
