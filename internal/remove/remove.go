// Package remove deletes diranalyzer artifacts one candidate at a time.
// A failed candidate never aborts the batch: every remaining location is
// still attempted and the failures are carried in the summary.
package remove

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"diranalyzer-setup/internal/config"
	"diranalyzer-setup/internal/locate"
	"diranalyzer-setup/internal/logger"
)

// Outcome classifies one removal attempt.
type Outcome int

const (
	// OutcomeRemoved means the artifact existed and was deleted.
	OutcomeRemoved Outcome = iota
	// OutcomeNotFound means nothing existed at the location. This is a
	// success state, not a failure.
	OutcomeNotFound
	// OutcomeDenied means the artifact exists but could not be deleted.
	// Permission problems are the common case; other I/O errors are folded
	// in here and distinguished by Err.
	OutcomeDenied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRemoved:
		return "removed"
	case OutcomeNotFound:
		return "not-found"
	default:
		return "permission-denied"
	}
}

// Result is the outcome for a single location.
type Result struct {
	Path    string
	Outcome Outcome
	Err     error
}

// Summary aggregates the per-location results of one category.
type Summary struct {
	Results []Result
}

// Removed counts successful deletions.
func (s Summary) Removed() int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == OutcomeRemoved {
			n++
		}
	}
	return n
}

// Failures returns the results that could not be removed.
func (s Summary) Failures() []Result {
	var failed []Result
	for _, r := range s.Results {
		if r.Outcome == OutcomeDenied {
			failed = append(failed, r)
		}
	}
	return failed
}

// NothingFound reports whether no artifact existed in this category at
// all. Zero removals with zero failures is "nothing found" and counts as
// success.
func (s Summary) NothingFound() bool {
	return s.Removed() == 0 && len(s.Failures()) == 0
}

// Engine removes artifacts for one Layout.
type Engine struct {
	layout config.Layout
}

// NewEngine creates a removal engine over the given layout.
func NewEngine(layout config.Layout) *Engine {
	return &Engine{layout: layout}
}

// RemoveBinaries deletes the resolved binary candidates. Candidates that
// resolved through the command-search path but live outside the well-known
// directories are deliberately left in place: deleting a package-manager
// owned binary behind the manager's back is worse than reporting it, and
// the verification probe will surface it afterwards.
func (e *Engine) RemoveBinaries(candidates []locate.Candidate) Summary {
	managed := make(map[string]bool)
	for _, dir := range e.layout.BinaryDirs() {
		managed[dir] = true
	}

	var s Summary
	for _, cand := range candidates {
		if !managed[filepath.Dir(cand.Path)] {
			logger.Warn("[WARN] %s resolves via PATH but is outside the managed locations; leaving it in place\n", cand.Path)
			continue
		}
		s.Results = append(s.Results, e.removePath(cand.Path))
	}
	return s
}

// RemoveConfig deletes the tool's configuration directory.
func (e *Engine) RemoveConfig() Summary {
	return Summary{Results: []Result{e.removePath(e.layout.ConfigDir())}}
}

// RemoveCache deletes the cache directory and any scratch files matching
// the fixed glob patterns. Patterns that match zero files are a normal
// outcome; matches that partially fail to delete are reported like any
// other denied candidate.
func (e *Engine) RemoveCache() Summary {
	var s Summary
	s.Results = append(s.Results, e.removePath(e.layout.CacheDir()))

	for _, pattern := range e.layout.CacheGlobs() {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			// Only a malformed pattern errors here, and the patterns are fixed.
			logger.Error("[ERROR] Bad cache glob %s: %v\n", pattern, err)
			continue
		}
		logger.Debug("[DEBUG] Cache glob %s matched %d entries\n", pattern, len(matches))
		for _, match := range matches {
			s.Results = append(s.Results, e.removePath(match))
		}
	}

	return s
}

// RemoveDesktopEntry deletes the desktop-launcher descriptor.
func (e *Engine) RemoveDesktopEntry() Summary {
	return Summary{Results: []Result{e.removePath(e.layout.DesktopEntryPath())}}
}

// removePath deletes a single file or directory tree and classifies the
// result. Files are deleted directly; directories are removed recursively.
func (e *Engine) removePath(path string) Result {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Path: path, Outcome: OutcomeNotFound}
		}
		return Result{Path: path, Outcome: OutcomeDenied, Err: err}
	}

	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		logger.Warn("[WARN] Failed to remove %s: %v\n", path, err)
		return Result{Path: path, Outcome: OutcomeDenied, Err: err}
	}

	logger.Info("[INFO] Removed %s\n", path)
	return Result{Path: path, Outcome: OutcomeRemoved}
}
