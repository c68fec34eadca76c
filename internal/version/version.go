package version

import (
	"fmt"
	"runtime/debug"
)

const Name = "admingrid"

// These variables are populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// String renders the version line. Without ldflags the VCS revision
// stamped by the Go toolchain is used when present.
func String() string {
	base := Version
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	if commit != "" {
		base += fmt.Sprintf(" (%s)", commit)
	}
	if Date != "" {
		base += fmt.Sprintf(" %s", Date)
	}
	return base
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
