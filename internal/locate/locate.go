// Package locate finds diranalyzer artifacts on the host. There is no
// manifest of what any installer run placed where, so the well-known
// locations plus a command-search lookup are the authoritative record.
package locate

import (
	"os"
	"os/exec"
	"path/filepath"

	"diranalyzer-setup/internal/config"
	"diranalyzer-setup/internal/logger"
)

// Kind tags a candidate location with the artifact category it belongs to.
type Kind string

const (
	KindBinary       Kind = "binary"
	KindConfig       Kind = "config"
	KindCache        Kind = "cache"
	KindDesktopEntry Kind = "desktop-entry"
)

// Candidate is a filesystem path paired with its artifact kind. Candidates
// are recomputed on every invocation and never persisted.
type Candidate struct {
	Path string
	Kind Kind
}

// ResolveBinaries probes the fixed, ordered well-known directories for the
// tool binary and then resolves the name through the command-search path,
// appending that result when it is not already present.
//
// Deduplication is by exact string equality of the resolved absolute path,
// not by canonicalization: two textual forms of the same path are treated
// as distinct. That limitation is accepted; the verification probe catches
// anything a stale PATH still resolves.
//
// An empty result means nothing was found and is not an error.
func ResolveBinaries(layout config.Layout) []Candidate {
	seen := make(map[string]bool)
	var found []Candidate

	for _, dir := range layout.BinaryDirs() {
		path := filepath.Join(dir, config.ToolName)
		if seen[path] {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		logger.Debug("[DEBUG] Found binary candidate: %s\n", path)
		seen[path] = true
		found = append(found, Candidate{Path: path, Kind: KindBinary})
	}

	if path, ok := Probe(); ok {
		if !seen[path] {
			logger.Debug("[DEBUG] Command-search resolved additional candidate: %s\n", path)
			seen[path] = true
			found = append(found, Candidate{Path: path, Kind: KindBinary})
		}
	}

	return found
}

// Probe resolves the tool name through the command-search path, exactly as
// a new shell would. It returns the resolved absolute path and whether the
// tool is reachable at all. A reachable path outside the well-known list
// (a package-manager-owned directory, typically) is reported, never
// removed.
func Probe() (string, bool) {
	path, err := exec.LookPath(config.ToolName)
	if err != nil {
		return "", false
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, true
}

// FixedCandidates returns the non-binary artifact locations: configuration
// directory, cache directory, and the desktop-launcher descriptor. These
// are listed unconditionally; the removal engine treats an absent entry as
// "nothing found", which is success.
func FixedCandidates(layout config.Layout) []Candidate {
	return []Candidate{
		{Path: layout.ConfigDir(), Kind: KindConfig},
		{Path: layout.CacheDir(), Kind: KindCache},
		{Path: layout.DesktopEntryPath(), Kind: KindDesktopEntry},
	}
}
