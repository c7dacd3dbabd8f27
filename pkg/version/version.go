package version

// These are set at build time via -ldflags.
var (
	// Version is the semantic version of this build.
	Version = "dev"
	// GitCommit is the git commit hash of this build.
	GitCommit = "unknown"
)
