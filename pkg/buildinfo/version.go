// Package buildinfo exposes the version stamped into the citegraph binary.
//
// Release builds set the variables with -ldflags:
//
//	-X github.com/matzehuels/citegraph/pkg/buildinfo.Version=v0.3.0
//	-X github.com/matzehuels/citegraph/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)
//	-X github.com/matzehuels/citegraph/pkg/buildinfo.Date=$(date -u +%FT%TZ)
//
// Binaries built with go install fall back to the module version and VCS
// settings recorded by the toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	fillFrom(bi)
}

func fillFrom(bi *debug.BuildInfo) {
	if Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value[:min(len(s.Value), 12)]
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// String returns a multi-line version report.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}
