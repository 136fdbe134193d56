// Command cbuild resolves *.csolution.yml document trees into build
// contexts, locks pack versions, solves components/conditions/layers, and
// validates SVD device descriptions.
package main

import (
	"os"

	"github.com/embedstack/cbuild/cmd"
)

// Build-time version information, set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	os.Exit(cmd.Execute())
}
