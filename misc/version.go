// Package misc keeps build time information.
package misc

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// set with -ldflags "-X uddtool/misc.version=... -X uddtool/misc.gitHash=..."
var (
	version = "dev"
	gitHash = ""
	appName = "uddtool"
)

// GetAppName returns name of the executable without extension, falling back
// to the default name when it cannot be determined.
func GetAppName() string {
	exe, err := os.Executable()
	if err != nil {
		return appName
	}
	name := strings.TrimSuffix(filepath.Base(exe), ".exe")
	if name == "" || strings.HasSuffix(name, ".test") {
		return appName
	}
	return name
}

func GetVersion() string {
	return version
}

// GetGitHash returns the commit the binary was built from, consulting build
// info when the value was not set at link time.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
