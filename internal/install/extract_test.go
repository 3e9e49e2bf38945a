package install

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diranalyzer-setup/internal/config"
)

// writeTarGz builds a small release-shaped tarball: a nested folder with
// the tool binary plus a README.
func writeTarGz(t *testing.T, path string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	entries := []struct {
		name string
		mode int64
		body string
	}{
		{"diranalyzer-v1.1.0/README.md", 0644, "readme"},
		{"diranalyzer-v1.1.0/" + config.ToolName, 0755, "#!/bin/sh\nexit 0\n"},
	}
	for _, e := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     e.name,
			Mode:     e.mode,
			Size:     int64(len(e.body)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(e.body))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
}

func TestExtractTarGzAndFindBinary(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "diranalyzer-linux-amd64.tar.gz")
	writeTarGz(t, archive)

	dest := filepath.Join(dir, "extracted")
	require.NoError(t, ExtractArchive(archive, dest))

	binary, err := FindToolBinary(dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "diranalyzer-v1.1.0", config.ToolName), binary)

	info, err := os.Stat(binary)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0111)
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "diranalyzer-darwin-arm64.zip")

	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create(config.ToolName)
	require.NoError(t, err)
	_, err = w.Write([]byte("binary"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(dir, "extracted")
	require.NoError(t, ExtractArchive(archive, dest))

	data, err := os.ReadFile(filepath.Join(dest, config.ToolName))
	require.NoError(t, err)
	assert.Equal(t, "binary", string(data))
}

func TestExtractTarMaterializesSymlinkedBinary(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "diranalyzer-linux-amd64.tar.gz")

	f, err := os.Create(archive)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	body := "#!/bin/sh\nexit 0\n"
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "bin/diranalyzer-1.1.0",
		Mode:     0755,
		Size:     int64(len(body)),
		Typeflag: tar.TypeReg,
	}))
	_, err = tw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     config.ToolName,
		Typeflag: tar.TypeSymlink,
		Linkname: "bin/diranalyzer-1.1.0",
	}))
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(dir, "extracted")
	require.NoError(t, ExtractArchive(archive, dest))

	binary, err := FindToolBinary(dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, config.ToolName), binary)

	// The link resolves to a real executable.
	info, err := os.Stat(binary)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
	assert.NotZero(t, info.Mode().Perm()&0111)
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.tar.gz")

	f, err := os.Create(archive)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	body := "owned"
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "../escape",
		Mode:     0644,
		Size:     int64(len(body)),
		Typeflag: tar.TypeReg,
	}))
	_, err = tw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(dir, "extracted")
	err = ExtractArchive(archive, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes extraction directory")

	_, statErr := os.Stat(filepath.Join(dir, "escape"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "asset.rar")
	require.NoError(t, os.WriteFile(archive, []byte("x"), 0644))

	err := ExtractArchive(archive, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported archive format")
}

func TestFindToolBinarySkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ToolName), []byte("data"), 0644))

	_, err := FindToolBinary(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no "+config.ToolName+" executable")
}
