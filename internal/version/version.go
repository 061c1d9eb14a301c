// Package version carries build metadata, set with -ldflags "-X".
package version

var (
	// Version is the release of this build.
	Version = "v0.9.0"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the metadata on one line.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
