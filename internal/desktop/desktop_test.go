package desktop

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diranalyzer-setup/internal/config"
)

func TestWrite(t *testing.T) {
	layout := config.LayoutWithHome(t.TempDir())

	require.NoError(t, Write(layout, "/usr/local/bin/diranalyzer"))

	data, err := os.ReadFile(layout.DesktopEntryPath())
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "[Desktop Entry]")
	assert.Contains(t, content, "Name=DirAnalyzer")
	assert.Contains(t, content, "Exec=/usr/local/bin/diranalyzer %f")
	assert.Contains(t, content, "Type=Application")
	assert.Contains(t, content, "Terminal=true")
	assert.Contains(t, content, "Categories=System;Utility;")
}

func TestWriteOverwritesExisting(t *testing.T) {
	layout := config.LayoutWithHome(t.TempDir())

	require.NoError(t, Write(layout, "/old/path"))
	require.NoError(t, Write(layout, "/new/path"))

	data, err := os.ReadFile(layout.DesktopEntryPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Exec=/new/path %f")
	assert.NotContains(t, string(data), "/old/path")
}
