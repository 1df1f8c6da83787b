// Package version exposes build metadata injected at link time.
package version

// Populated via -ldflags "-X github.com/yourpaljake/hitfinding/pkg/version.version=...".
//
//nolint:gochecknoglobals // Set by the linker.
var (
	version = "dev"
	commit  = "none"
)

// GetVersion returns the build version, "dev" for local builds.
func GetVersion() string {
	return version
}

// GetCommit returns the VCS revision the binary was built from.
func GetCommit() string {
	return commit
}
