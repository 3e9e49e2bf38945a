// Package desktop writes the launcher descriptor for the analyzer so it
// shows up in desktop application menus on Linux.
package desktop

import (
	"fmt"
	"os"
	"path/filepath"

	"diranalyzer-setup/internal/config"
)

// Entry holds the fixed key/value fields of the launcher descriptor.
type Entry struct {
	Name       string
	Comment    string
	Exec       string
	Icon       string
	Categories string
	Terminal   bool
}

// DefaultEntry describes the analyzer launcher pointing at the installed
// binary. The tool is terminal-based, so the launcher opens one.
func DefaultEntry(execPath string) Entry {
	return Entry{
		Name:       "DirAnalyzer",
		Comment:    "High-performance directory analysis tool",
		Exec:       execPath + " %f",
		Icon:       "utilities-system-monitor",
		Categories: "System;Utility;",
		Terminal:   true,
	}
}

// Write renders the descriptor to the layout's desktop-entry path,
// creating the applications directory when missing.
func Write(layout config.Layout, execPath string) error {
	entry := DefaultEntry(execPath)
	path := layout.DesktopEntryPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create applications directory: %w", err)
	}

	content := fmt.Sprintf(`[Desktop Entry]
Name=%s
Comment=%s
Exec=%s
Icon=%s
Type=Application
Categories=%s
Terminal=%t
`,
		entry.Name,
		entry.Comment,
		entry.Exec,
		entry.Icon,
		entry.Categories,
		entry.Terminal,
	)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write desktop entry %s: %w", path, err)
	}
	return nil
}
