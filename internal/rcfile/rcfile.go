// Package rcfile guards the one line the installer may have appended to
// the user's shell startup file. The file is global mutable state shared
// with the user, so every edit follows a strict acquire-backup, mutate
// discipline: no deletion ever proceeds without a successful backup copy.
package rcfile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"diranalyzer-setup/internal/config"
	"diranalyzer-setup/internal/logger"
)

// Status reports what the guard did with the startup file.
type Status int

const (
	// StatusNoFile means the startup file does not exist; nothing to do.
	StatusNoFile Status = iota
	// StatusNoLine means the installer's line is not present.
	StatusNoLine
	// StatusDeclined means the line is present but the user did not
	// confirm the edit; the file was left untouched.
	StatusDeclined
	// StatusRemoved means the line was backed up and removed.
	StatusRemoved
)

// Guard edits exactly one known line in one startup file.
type Guard struct {
	Path       string // startup file
	Line       string // exact text of the line to remove
	BackupPath string // verbatim copy taken before any edit
}

// NewGuard builds the guard for the current user's detected shell.
func NewGuard(layout config.Layout) *Guard {
	path := layout.RCPath(DetectShell())
	return &Guard{
		Path:       path,
		Line:       config.ExportedPathLine,
		BackupPath: path + config.BackupSuffix,
	}
}

// DetectShell inspects the SHELL environment variable and maps it to a
// supported shell name, defaulting to zsh when the shell is unknown.
func DetectShell() string {
	shell := os.Getenv("SHELL")
	logger.Debug("[DEBUG] Detected shell environment: %s\n", shell)

	if strings.Contains(shell, "zsh") {
		return "zsh"
	} else if strings.Contains(shell, "bash") {
		return "bash"
	}
	return "zsh"
}

// LinePresent reports whether the installer's line exists in the startup
// file. A missing file reads as "not present".
func (g *Guard) LinePresent() bool {
	data, err := os.ReadFile(g.Path)
	if err != nil {
		return false
	}
	return containsLine(data, g.Line)
}

// Remove deletes the installer's line from the startup file.
//
// When preConfirmed is false and the line is present, ask is invoked for a
// yes/no decision; anything but an affirmative answer leaves the file
// untouched. On confirmation the file is first copied verbatim to the
// backup path — a backup failure aborts the edit entirely — and only then
// rewritten with the matching line removed. All other content is preserved
// byte for byte.
func (g *Guard) Remove(preConfirmed bool, ask func(prompt string) bool) (Status, error) {
	info, err := os.Stat(g.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("[DEBUG] Startup file %s does not exist; nothing to do\n", g.Path)
			return StatusNoFile, nil
		}
		return StatusNoFile, fmt.Errorf("failed to stat %s: %w", g.Path, err)
	}

	data, err := os.ReadFile(g.Path)
	if err != nil {
		return StatusNoFile, fmt.Errorf("failed to read %s: %w", g.Path, err)
	}

	if !containsLine(data, g.Line) {
		return StatusNoLine, nil
	}

	if !preConfirmed {
		prompt := fmt.Sprintf("Remove the PATH entry added by the installer from %s?", g.Path)
		if ask == nil || !ask(prompt) {
			return StatusDeclined, nil
		}
	}

	// Backup before edit. The copy preserves the file mode; the process
	// runs as the file's owner, so ownership carries over with the write.
	if err := os.WriteFile(g.BackupPath, data, info.Mode().Perm()); err != nil {
		return StatusDeclined, fmt.Errorf("backup to %s failed, leaving %s untouched: %w", g.BackupPath, g.Path, err)
	}
	// WriteFile applies the mode only on creation; a backup left behind by
	// an earlier run keeps its old mode unless reset explicitly.
	if err := os.Chmod(g.BackupPath, info.Mode().Perm()); err != nil {
		return StatusDeclined, fmt.Errorf("could not set mode on backup %s, leaving %s untouched: %w", g.BackupPath, g.Path, err)
	}
	logger.Debug("[DEBUG] Backed up %s to %s\n", g.Path, g.BackupPath)

	if err := os.WriteFile(g.Path, dropLine(data, g.Line), info.Mode().Perm()); err != nil {
		return StatusDeclined, fmt.Errorf("failed to rewrite %s (backup kept at %s): %w", g.Path, g.BackupPath, err)
	}

	logger.Info("[INFO] Removed PATH entry from %s (backup: %s)\n", g.Path, g.BackupPath)
	logger.Info("[INFO] The change takes effect in new shell sessions; the current environment is unaffected.\n")
	return StatusRemoved, nil
}

// Append adds the installer's line to the startup file unless it is
// already present, creating the file when missing. This is the install-side
// counterpart of Remove.
func (g *Guard) Append() error {
	if g.LinePresent() {
		logger.Debug("[DEBUG] PATH entry already present in %s\n", g.Path)
		return nil
	}

	f, err := os.OpenFile(g.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("unable to open %s for appending: %w", g.Path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(g.Line + "\n"); err != nil {
		return fmt.Errorf("failed to append PATH entry to %s: %w", g.Path, err)
	}
	logger.Info("[INFO] Added PATH entry to %s\n", g.Path)
	return nil
}

// containsLine reports whether data holds line as a complete line.
func containsLine(data []byte, line string) bool {
	for _, l := range bytes.Split(data, []byte("\n")) {
		if string(l) == line {
			return true
		}
	}
	return false
}

// dropLine returns data with every exact occurrence of line removed,
// leaving all remaining bytes untouched.
func dropLine(data []byte, line string) []byte {
	out := make([]byte, 0, len(data))
	rest := data
	for len(rest) > 0 {
		var chunk []byte
		if idx := bytes.IndexByte(rest, '\n'); idx >= 0 {
			chunk = rest[:idx+1]
			rest = rest[idx+1:]
		} else {
			chunk = rest
			rest = nil
		}
		if strings.TrimSuffix(string(chunk), "\n") == line {
			continue
		}
		out = append(out, chunk...)
	}
	return out
}
