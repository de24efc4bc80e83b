// Package versions reports build information for the milletmart binaries.
package versions

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

const unknown = "unknown"

// Build information, set with -ldflags "-X .../versions.Version=v1.2.3"
var (
	Version   = "dev"
	Commit    = unknown
	BuildDate = unknown
)

// Info describes the running build
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Release   bool   `json:"release"`
}

// Get returns the build information of the running binary
func Get() Info {
	var settings []debug.BuildSetting
	if bi, ok := debug.ReadBuildInfo(); ok {
		settings = bi.Settings
	}
	return resolve(Version, Commit, BuildDate, settings)
}

// resolve fills unset values from the VCS build settings. A version that is
// valid semver without a prerelease suffix marks a release build and is
// normalized to "vMAJOR.MINOR.PATCH".
func resolve(version, commit, buildDate string, settings []debug.BuildSetting) Info {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if commit == unknown {
				commit = s.Value
			}
		case "vcs.time":
			if buildDate == unknown {
				buildDate = s.Value
			}
		}
	}

	if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
		buildDate = t.UTC().Format("2006-01-02 15:04:05 MST")
	}

	release := false
	if v, err := semver.NewVersion(version); err == nil {
		version = "v" + v.String()
		release = v.Prerelease() == ""
	} else if strings.HasPrefix(version, "dev") {
		version = fmt.Sprintf("build-%.8s", commit)
	}

	return Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Release:   release,
	}
}
