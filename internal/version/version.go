// Package version exposes the build identity stamped into the shopsearch
// binary by the release pipeline.
package version

import "fmt"

// Stamped via -ldflags at build time; the zero values mark a local build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the stamped identity as a single line for startup logs.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
