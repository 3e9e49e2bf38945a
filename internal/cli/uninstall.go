package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"diranalyzer-setup/internal/config"
	"diranalyzer-setup/internal/locate"
	"diranalyzer-setup/internal/logger"
	"diranalyzer-setup/internal/menu"
	"diranalyzer-setup/internal/rcfile"
	"diranalyzer-setup/internal/remove"
)

// ExitError carries a specific process exit code up to main. A force-mode
// run that finishes with the tool still reachable exits 2 so scripts can
// tell "removal incomplete" apart from ordinary failures.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Uninstaller runs the removal flows against one filesystem layout. The
// reader and writer are injectable so the prompt paths are testable.
type Uninstaller struct {
	Layout config.Layout
	In     io.Reader
	Out    io.Writer

	Force       bool
	Interactive bool
	DryRun      bool

	// consented is set once the up-front y/N confirmation succeeds, so the
	// startup-file guard does not ask a second time.
	consented bool

	// reader is the single buffered view of In shared by every prompt.
	// A second bufio.Reader over the same stream would lose whatever the
	// first one buffered past its line, swallowing piped answers.
	reader *bufio.Reader
}

func (u *Uninstaller) stdin() *bufio.Reader {
	if u.reader == nil {
		u.reader = bufio.NewReader(u.In)
	}
	return u.reader
}

// NewUninstaller builds an uninstaller bound to the real terminal.
func NewUninstaller(layout config.Layout) *Uninstaller {
	return &Uninstaller{Layout: layout, In: os.Stdin, Out: os.Stdout}
}

// ExecuteUninstall parses flags and runs the requested uninstall flow.
func ExecuteUninstall() error {
	u := &Uninstaller{In: os.Stdin, Out: os.Stdout}
	var debug bool

	cmd := &cobra.Command{
		Use:   "diranalyzer-uninstall",
		Short: "Remove diranalyzer and its companion files",
		Long: "Removes the diranalyzer binary from the well-known install locations,\n" +
			"deletes its configuration, cache, and desktop entry, and reverts the\n" +
			"PATH line the installer added to the shell startup file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := config.NewLayout()
			if err != nil {
				return err
			}
			u.Layout = layout
			return u.Run()
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVarP(&u.Force, "force", "f", false, "Remove everything without prompting")
	cmd.Flags().BoolVarP(&u.Interactive, "interactive", "i", false, "Choose what to remove from a menu")
	cmd.Flags().BoolVar(&u.DryRun, "dry-run", false, "Show what would be removed without deleting anything")
	cmd.MarkFlagsMutuallyExclusive("force", "interactive")
	cmd.MarkFlagsMutuallyExclusive("force", "dry-run")

	return cmd.Execute()
}

// Run dispatches to the flow the flags selected. Dry-run wins over every
// other mode; interactive and force are mutually exclusive at flag level.
func (u *Uninstaller) Run() error {
	if u.DryRun {
		return u.runDryRun()
	}
	if u.Interactive {
		return u.runInteractive()
	}
	if !u.Force {
		if !u.confirm(fmt.Sprintf("Remove %s and all of its files?", config.ToolName)) {
			logger.Info("[INFO] Uninstall cancelled; nothing was removed.\n")
			return nil
		}
		u.consented = true
	}
	return u.runFull()
}

// runDryRun reports every location a real run would touch. No filesystem
// mutation of any kind happens here.
func (u *Uninstaller) runDryRun() error {
	fmt.Fprintln(u.Out, "Dry run: the following would be removed.")

	binaries := locate.ResolveBinaries(u.Layout)
	managed := make(map[string]bool)
	for _, dir := range u.Layout.BinaryDirs() {
		managed[dir] = true
	}

	for _, cand := range binaries {
		if managed[filepath.Dir(cand.Path)] {
			fmt.Fprintf(u.Out, "  binary         %s\n", cand.Path)
		} else {
			fmt.Fprintf(u.Out, "  binary         %s (outside managed locations; would be left in place)\n", cand.Path)
		}
	}
	if len(binaries) == 0 {
		fmt.Fprintln(u.Out, "  binary         (none found)")
	}

	for _, cand := range locate.FixedCandidates(u.Layout) {
		if _, err := os.Lstat(cand.Path); err != nil {
			fmt.Fprintf(u.Out, "  %-14s %s (not present)\n", cand.Kind, cand.Path)
			continue
		}
		fmt.Fprintf(u.Out, "  %-14s %s\n", cand.Kind, cand.Path)
		if cand.Kind == locate.KindConfig {
			if cfg, err := config.ReadToolConfig(u.Layout.ToolConfigPath()); err == nil {
				fmt.Fprintf(u.Out, "                 (min_size: %d, export format: %s)\n", cfg.MinSize, cfg.Export.DefaultFormat)
			}
		}
	}
	for _, pattern := range u.Layout.CacheGlobs() {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, match := range matches {
			fmt.Fprintf(u.Out, "  %-14s %s\n", locate.KindCache, match)
		}
	}

	guard := rcfile.NewGuard(u.Layout)
	if guard.LinePresent() {
		fmt.Fprintf(u.Out, "  path-entry     %s (one line, backed up first)\n", guard.Path)
	} else {
		fmt.Fprintf(u.Out, "  path-entry     %s (no installer line present)\n", guard.Path)
	}

	fmt.Fprintln(u.Out, "No changes were made.")
	return nil
}

// runInteractive shows the menu once and performs the chosen action. Every
// choice is terminal; there is no loop back to the menu.
func (u *Uninstaller) runInteractive() error {
	selection, err := menu.Prompt(u.stdin(), u.Out)
	if err != nil {
		return err
	}

	engine := remove.NewEngine(u.Layout)
	switch selection {
	case menu.SelectionCancel:
		logger.Info("[INFO] Uninstall cancelled; nothing was removed.\n")
		return nil
	case menu.SelectionBinaries:
		u.report("binaries", engine.RemoveBinaries(locate.ResolveBinaries(u.Layout)))
		return nil
	case menu.SelectionConfig:
		u.report("configuration", engine.RemoveConfig())
		return nil
	case menu.SelectionCache:
		u.report("cache", engine.RemoveCache())
		return nil
	default:
		return u.runFull()
	}
}

// runFull removes every artifact category, reverts the startup-file line,
// and verifies afterwards that the tool no longer resolves.
func (u *Uninstaller) runFull() error {
	binaries := locate.ResolveBinaries(u.Layout)
	guard := rcfile.NewGuard(u.Layout)

	if len(binaries) == 0 && !anyFixedPresent(u.Layout) && !guard.LinePresent() {
		logger.Info("[INFO] No %s installation found; nothing to remove.\n", config.ToolName)
		return nil
	}

	engine := remove.NewEngine(u.Layout)
	summaries := map[string]remove.Summary{
		"binaries":      engine.RemoveBinaries(binaries),
		"configuration": engine.RemoveConfig(),
		"cache":         engine.RemoveCache(),
		"desktop entry": engine.RemoveDesktopEntry(),
	}

	status, err := guard.Remove(u.Force || u.consented, u.confirm)
	if err != nil {
		logger.Error("[ERROR] %v\n", err)
	}

	for _, category := range []string{"binaries", "configuration", "cache", "desktop entry"} {
		u.report(category, summaries[category])
	}
	switch status {
	case rcfile.StatusRemoved:
		fmt.Fprintf(u.Out, "  path entry: removed from %s\n", guard.Path)
	case rcfile.StatusDeclined:
		fmt.Fprintf(u.Out, "  path entry: left in %s\n", guard.Path)
	default:
		fmt.Fprintln(u.Out, "  path entry: nothing found")
	}

	// Per-item failures stay in the summary; the exit status follows the
	// verification outcome, not an individual permission problem.
	if path, reachable := locate.Probe(); reachable {
		logger.Warn("[WARN] %s still resolves to %s; removal is incomplete\n", config.ToolName, path)
		if u.Force {
			return &ExitError{Code: 2, Message: fmt.Sprintf("%s still reachable at %s after forced removal", config.ToolName, path)}
		}
	} else {
		logger.Info("[INFO] Verified: %s no longer resolves via the command-search path.\n", config.ToolName)
	}
	return nil
}

// report prints the per-category outcome line plus any failures.
func (u *Uninstaller) report(category string, s remove.Summary) {
	if s.NothingFound() {
		fmt.Fprintf(u.Out, "  %s: nothing found\n", category)
	} else {
		fmt.Fprintf(u.Out, "  %s: removed %d\n", category, s.Removed())
	}
	for _, failure := range s.Failures() {
		fmt.Fprintf(u.Out, "    failed: %s (%v)\n", failure.Path, failure.Err)
	}
}

// confirm asks a yes/no question on the uninstaller's terminal. Only "y"
// and "yes" (case-insensitive) count as consent; everything else, including
// a closed input stream, is a no.
func (u *Uninstaller) confirm(prompt string) bool {
	fmt.Fprintf(u.Out, "%s [y/N]: ", prompt)
	answer, err := u.stdin().ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// anyFixedPresent reports whether any non-binary artifact location exists,
// including scratch files matching the cache globs.
func anyFixedPresent(layout config.Layout) bool {
	for _, cand := range locate.FixedCandidates(layout) {
		if _, err := os.Lstat(cand.Path); err == nil {
			return true
		}
	}
	for _, pattern := range layout.CacheGlobs() {
		if matches, err := filepath.Glob(pattern); err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}
