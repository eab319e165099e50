// Package version holds build metadata set via -ldflags.
package version

// Set at build time:
//
//	-ldflags "-X github.com/sydlexius/kala/internal/version.Version=v1.2.3 -X github.com/sydlexius/kala/internal/version.Commit=abc123"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the version line printed by the CLI.
func String() string {
	return Version + " (commit " + Commit + ", built " + Date + ")"
}
