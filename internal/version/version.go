// Package version exposes build metadata injected at link time.
package version

import "fmt"

// Set via -ldflags at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info bundles the build metadata for display.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
}

// Get returns the current build info.
func Get() Info {
	return Info{Version: Version, Commit: Commit, BuildTime: BuildTime}
}

// Short returns the abbreviated commit hash.
func (i Info) Short() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

// String renders a one-line version summary.
func (i Info) String() string {
	return fmt.Sprintf("graph-canvas %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
}
