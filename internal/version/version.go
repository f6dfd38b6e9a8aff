package version

import "github.com/fatih/color"

// Build-time version stamps for the tsbridge CLI. GitCommit and
// BuildDate can be set via -ldflags -X; Version is computed at package
// initialisation by styling its literal, so -X does not replace it.
// Unlike a three-tier major/minor/patch color scheme, the
// whole semver string is styled once in the CLI's single accent color —
// there's nothing here that benefits a reader from telling major from
// patch by color.

var accent = color.New(color.FgCyan, color.Bold)

var (
	// Version is the semantic version of the CLI.
	Version = accent.Sprint("0.1.0-dev")

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)
