package version

// Name is the binary and product name
const Name = "dontcaught"

// Set at build time via -ldflags "-X github.com/awsl-project/dontcaught/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info returns "version (commit)"
func Info() string {
	return Version + " (" + Commit + ")"
}

// Full includes the build time
func Full() string {
	return Version + " (commit: " + Commit + ", built: " + BuildTime + ")"
}
