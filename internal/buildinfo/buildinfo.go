// Package buildinfo holds version information injected at build time via ldflags.
package buildinfo

var (
	Version    = "dev"
	Codename   = "unknown"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// UserAgent is the User-Agent sent to the Aether backend.
func UserAgent() string {
	return "aether-desktop/" + Version
}
