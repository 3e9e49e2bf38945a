package remove

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diranalyzer-setup/internal/config"
	"diranalyzer-setup/internal/locate"
)

func testLayout(t *testing.T) config.Layout {
	t.Helper()
	layout := config.LayoutWithHome(t.TempDir())
	layout.TmpDir = t.TempDir()
	return layout
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0755))
}

func binaryCandidates(paths ...string) []locate.Candidate {
	var cands []locate.Candidate
	for _, p := range paths {
		cands = append(cands, locate.Candidate{Path: p, Kind: locate.KindBinary})
	}
	return cands
}

func TestRemoveBinaries(t *testing.T) {
	layout := testLayout(t)
	engine := NewEngine(layout)

	a := filepath.Join(layout.UserBinDir(), config.ToolName)
	b := filepath.Join(layout.Home, "bin", config.ToolName)
	writeFile(t, a)
	writeFile(t, b)

	s := engine.RemoveBinaries(binaryCandidates(a, b))
	assert.Equal(t, 2, s.Removed())
	assert.Empty(t, s.Failures())
	assert.NoFileExists(t, a)
	assert.NoFileExists(t, b)
}

func TestRemoveBinariesSkipsUnmanagedPath(t *testing.T) {
	layout := testLayout(t)
	engine := NewEngine(layout)

	// Simulates a package-manager-owned binary found via command search.
	foreign := filepath.Join(t.TempDir(), config.ToolName)
	writeFile(t, foreign)

	s := engine.RemoveBinaries(binaryCandidates(foreign))
	assert.Empty(t, s.Results)
	assert.FileExists(t, foreign)
}

func TestRemoveBinariesPartialFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	layout := testLayout(t)
	engine := NewEngine(layout)

	ok1 := filepath.Join(config.SystemBinDir, config.ToolName) // never exists in the sandbox
	ok2 := filepath.Join(layout.UserBinDir(), config.ToolName)
	locked := filepath.Join(layout.Home, "bin", config.ToolName)
	writeFile(t, ok2)
	writeFile(t, locked)

	lockedDir := filepath.Dir(locked)
	require.NoError(t, os.Chmod(lockedDir, 0555))
	t.Cleanup(func() { _ = os.Chmod(lockedDir, 0755) })

	s := engine.RemoveBinaries(binaryCandidates(ok1, ok2, locked))

	assert.Equal(t, 1, s.Removed())
	require.Len(t, s.Failures(), 1)
	assert.Equal(t, locked, s.Failures()[0].Path)
	assert.Equal(t, OutcomeDenied, s.Failures()[0].Outcome)
	// The protected entry did not stop the batch.
	assert.NoFileExists(t, ok2)
	assert.FileExists(t, locked)
}

func TestRemoveConfigRecursively(t *testing.T) {
	layout := testLayout(t)
	engine := NewEngine(layout)

	writeFile(t, layout.ToolConfigPath())
	writeFile(t, filepath.Join(layout.ConfigDir(), "themes", "dark.yaml"))

	s := engine.RemoveConfig()
	assert.Equal(t, 1, s.Removed())
	assert.NoDirExists(t, layout.ConfigDir())
}

func TestRemoveCacheGlobs(t *testing.T) {
	layout := testLayout(t)
	engine := NewEngine(layout)

	writeFile(t, filepath.Join(layout.CacheDir(), "scan.db"))
	writeFile(t, filepath.Join(layout.TmpDir, "diranalyzer-export-1.json"))
	writeFile(t, filepath.Join(layout.TmpDir, "diranalyzer-partial.tar.gz"))
	writeFile(t, filepath.Join(layout.TmpDir, "unrelated.tmp"))

	s := engine.RemoveCache()
	assert.Equal(t, 3, s.Removed())
	assert.Empty(t, s.Failures())
	assert.FileExists(t, filepath.Join(layout.TmpDir, "unrelated.tmp"))
}

func TestRemoveCacheGlobMatchesNothing(t *testing.T) {
	layout := testLayout(t)
	engine := NewEngine(layout)

	s := engine.RemoveCache()
	assert.True(t, s.NothingFound())
	assert.Empty(t, s.Failures())
}

func TestIdempotentSecondRun(t *testing.T) {
	layout := testLayout(t)
	engine := NewEngine(layout)

	bin := filepath.Join(layout.UserBinDir(), config.ToolName)
	writeFile(t, bin)
	writeFile(t, layout.ToolConfigPath())
	writeFile(t, filepath.Join(layout.CacheDir(), "scan.db"))
	writeFile(t, layout.DesktopEntryPath())

	first := []Summary{
		engine.RemoveBinaries(binaryCandidates(bin)),
		engine.RemoveConfig(),
		engine.RemoveCache(),
		engine.RemoveDesktopEntry(),
	}
	for _, s := range first {
		assert.Positive(t, s.Removed())
	}

	second := []Summary{
		engine.RemoveBinaries(binaryCandidates(bin)),
		engine.RemoveConfig(),
		engine.RemoveCache(),
		engine.RemoveDesktopEntry(),
	}
	for _, s := range second {
		assert.True(t, s.NothingFound())
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "removed", OutcomeRemoved.String())
	assert.Equal(t, "not-found", OutcomeNotFound.String())
	assert.Equal(t, "permission-denied", OutcomeDenied.String())
}
