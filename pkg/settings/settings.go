// Package settings provides build metadata and runtime configuration shared
// across the jex CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "jex"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds configuration settings for a single execution of the application:
// logging, input source, and the interactive engine's tunables.
type Run struct {
	MinLogLevel     int8
	LogFile         string
	InputPath       string // file path, "-" or empty means stdin
	InitialFilter   string
	Indent          int
	MaxDepth        int
	MaxEntries      int
	DebounceMs      int
	SuggestionLimit int
	NoHint          bool
}

// NewCliParams initializes a Run with the defaults used by the CLI entry
// point. The debounce window and index limits mirror the documented defaults
// and can be overridden by flags or the config file.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel:     0,
		InitialFilter:   ".",
		Indent:          2,
		MaxDepth:        1000,
		MaxEntries:      50000,
		DebounceMs:      300,
		SuggestionLimit: 8,
	}
}
