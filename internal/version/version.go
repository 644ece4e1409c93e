// Package version reports build information for the sessionlink binary.
//
// Release builds set the variables via ldflags:
//
//	go build -ldflags "-X github.com/rickgao/sessionlink/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/sessionlink/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/rickgao/sessionlink/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Without ldflags, Commit and BuildTime fall back to the VCS stamp the Go
// toolchain embeds in the binary.
package version

import (
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

// Build-time variables (set via ldflags)
var (
	Version   = "dev"
	Commit    = unknown
	BuildTime = unknown
)

// Info is the build information of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the build information, filling unset fields from the
// embedded VCS settings when available.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		applyVCS(&info, bi.Settings)
	}

	return info
}

func applyVCS(info *Info, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == unknown && s.Value != "" {
				info.Commit = s.Value
				if len(info.Commit) > 7 {
					info.Commit = info.Commit[:7]
				}
			}
		case "vcs.time":
			if info.BuildTime == unknown && s.Value != "" {
				info.BuildTime = s.Value
			}
		}
	}
}

// String returns a formatted version string.
func (i Info) String() string {
	return i.Version + " (" + i.Commit + ") built " + i.BuildTime
}

// String returns the formatted version string of the running binary.
func String() string {
	return Get().String()
}
