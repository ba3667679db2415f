package version

import (
	"runtime/debug"
	"strings"
)

// Version can be set at build time with something like:
// go build -ldflags "-X github.com/soundscape-lab/audioserver/version.Version=$(git describe --dirty)"
var Version string

// Build describes the binary as recorded by the Go toolchain.
type Build struct {
	GoVersion string
	Revision  string
	Modified  bool
}

// ReadBuild returns the build information embedded in the running binary.
// Revision is empty when the binary was not built from a repository.
func ReadBuild() Build {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Build{}
	}
	return buildFromSettings(info.GoVersion, info.Settings)
}

func buildFromSettings(goVersion string, settings []debug.BuildSetting) Build {
	b := Build{GoVersion: goVersion}
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			b.Revision = s.Value
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

// Hash is the short revision, with a -dirty suffix for modified trees.
func (b Build) Hash() string {
	if b.Revision == "" {
		return ""
	}
	h := b.Revision[:min(7, len(b.Revision))]
	if b.Modified {
		h += "-dirty"
	}
	return h
}

// String formats the build for the -v flag, e.g. "v0.3.0 (go1.24.0)".
func (b Build) String() string {
	parts := make([]string, 0, 2)
	if v := orHash(Version, b); v != "" {
		parts = append(parts, v)
	} else {
		parts = append(parts, "devel")
	}
	if b.GoVersion != "" {
		parts = append(parts, "("+b.GoVersion+")")
	}
	return strings.Join(parts, " ")
}

func orHash(version string, b Build) string {
	if version != "" {
		return version
	}
	return b.Hash()
}

// VersionOrHash is the version set at build time, or the revision hash when
// none was set.
var VersionOrHash = orHash(Version, ReadBuild())
