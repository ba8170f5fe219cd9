// Package config provides configuration management for attest.
package config

// Default configuration values for attest.
const (
	// DefaultManifestName is the manifest filename used when none is
	// given on the command line.
	DefaultManifestName = ".attest.json"

	// DefaultWorkers selects automatic worker sizing (CPU count).
	DefaultWorkers = 0

	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"

	// DefaultFormat is the default report formatter.
	DefaultFormat = "pretty"
)

// DefaultExclusions contains directory names excluded from every walk
// unless overridden. These hold derived or volatile content that churns
// on every build.
var DefaultExclusions = []string{
	".git",
	".hg",
	".svn",
}
