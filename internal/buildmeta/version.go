// Package buildmeta holds build information injected via ldflags:
//
//	go build -ldflags="-X github.com/bibiserv/bibigrid/internal/buildmeta.Version=v1.0.0 ..."
//
//nolint:gochecknoglobals
package buildmeta

import "fmt"

var (
	// Version is the release of the build (e.g., "v1.0.0").
	Version = "dev"
	// Commit is the Git SHA of the build.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the version banner printed by the version action.
func String() string {
	return fmt.Sprintf("bibigrid %s (commit %s, built %s)", Version, Commit, Date)
}
