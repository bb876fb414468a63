// Package version reports this binary's build provenance, the way geth's
// own internal/version package does for the rest of the geth family (not
// importable outside its module, so carried here rather than vendored).
package version

import (
	"runtime/debug"
	"time"
)

// VCSInfo is the subset of Go's build-info VCS stamping this binary
// surfaces in its --version output.
type VCSInfo struct {
	Commit string
	Date   string
	Dirty  bool
}

// VCS reads VCS stamping from runtime/debug.ReadBuildInfo, present when
// built from a git checkout with a Go toolchain new enough to embed it.
// The second return value reports whether any VCS info was found at all.
func VCS() (VCSInfo, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return VCSInfo{}, false
	}

	var out VCSInfo
	var found bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
			found = true
		case "vcs.time":
			out.Date = s.Value
		case "vcs.modified":
			out.Dirty = s.Value == "true"
		}
	}
	return out, found
}

// WithCommit renders version (e.g. "0.1.0") with a short commit/date
// suffix when VCS info is available, matching the teacher's
// params.VersionWithCommit shape.
func WithCommit(version string) string {
	info, ok := VCS()
	if !ok || info.Commit == "" {
		return version
	}

	commit := info.Commit
	if len(commit) > 8 {
		commit = commit[:8]
	}

	out := version + "-" + commit
	if info.Date != "" {
		if t, err := time.Parse(time.RFC3339, info.Date); err == nil {
			out += "-" + t.Format("20060102")
		}
	}
	if info.Dirty {
		out += "-dirty"
	}
	return out
}
