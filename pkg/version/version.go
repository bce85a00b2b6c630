package version

import (
	"runtime"
	"runtime/debug"

	// Packages
	types "github.com/mutablelogic/go-agent/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Set at link time with -ldflags "-X ..."
var (
	GitTag    string
	GitBranch string
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Version returns the release tag, branch name or source revision,
// whichever is known first
func Version() string {
	if GitTag != "" {
		return GitTag
	}
	if GitBranch != "" {
		return GitBranch
	}
	if revision := buildSetting("vcs.revision"); revision != "" {
		return revision[:min(len(revision), 12)]
	}
	return "dev"
}

// Map returns version metadata for the named executable
func Map(execName string) map[string]string {
	metadata := map[string]string{
		"name":     execName,
		"version":  Version(),
		"compiler": runtime.Version(),
	}
	if GitTag != "" {
		metadata["tag"] = GitTag
	}
	if GitBranch != "" {
		metadata["branch"] = GitBranch
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Path != "" {
		metadata["source"] = info.Main.Path
	}
	if revision := buildSetting("vcs.revision"); revision != "" {
		metadata["hash"] = revision
	}
	if buildTime := buildSetting("vcs.time"); buildTime != "" {
		metadata["build_time"] = buildTime
	}
	if goos, goarch := buildSetting("GOOS"), buildSetting("GOARCH"); goos != "" && goarch != "" {
		metadata["platform"] = goos + "/" + goarch
	}
	return metadata
}

// String returns version metadata as indented JSON
func String(execName string) string {
	return types.Stringify(Map(execName))
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func buildSetting(key string) string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == key {
				return s.Value
			}
		}
	}
	return ""
}
