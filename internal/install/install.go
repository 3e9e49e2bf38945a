package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"diranalyzer-setup/internal/config"
	"diranalyzer-setup/internal/desktop"
	"diranalyzer-setup/internal/locate"
	"diranalyzer-setup/internal/logger"
	"diranalyzer-setup/internal/rcfile"
)

// Manager drives the install sequence: resolve a target directory, obtain
// a binary (prebuilt fetch first, source build as fallback), place it, lay
// down the companion artifacts, and verify reachability.
type Manager struct {
	layout  config.Layout
	fetcher *ReleaseFetcher
	euid    int
}

// NewManager builds an installation manager for the given layout.
func NewManager(layout config.Layout) *Manager {
	return &Manager{
		layout:  layout,
		fetcher: NewReleaseFetcher(),
		euid:    os.Geteuid(),
	}
}

// TargetDir resolves the install directory: the environment override wins,
// elevated processes install system-wide, everyone else gets the per-user
// bin directory.
func (m *Manager) TargetDir() string {
	if override := config.InstallDirOverride(); override != "" {
		logger.Debug("[DEBUG] Install directory overridden via %s: %s\n", config.EnvInstallDir, override)
		return override
	}
	if m.euid == 0 {
		return config.SystemBinDir
	}
	return m.layout.UserBinDir()
}

// Install runs the full installation sequence. Any returned error is fatal
// to the install; partial state (files already copied) is named in the
// error rather than silently kept.
func (m *Manager) Install(ctx context.Context) error {
	platform, err := DetectPlatform()
	if err != nil {
		return err
	}
	logger.Info("[INFO] Installing %s for %s\n", config.ToolName, platform)

	target := m.TargetDir()
	if err := os.MkdirAll(target, 0755); err != nil {
		return fmt.Errorf("cannot create install directory %s: %w", target, err)
	}

	// Scratch space for the download, extraction, and fallback build. It is
	// removed on return; the name still matches the diranalyzer-* cache
	// glob, so an uninstall sweeps up whatever a killed install left behind.
	scratch, err := os.MkdirTemp("", config.ToolName+"-download-")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	binary, tag, err := m.obtainBinary(ctx, platform, scratch)
	if err != nil {
		return err
	}

	installPath := filepath.Join(target, config.ToolName)
	if err := copyExecutable(binary, installPath); err != nil {
		return fmt.Errorf("failed to place binary at %s: %w", installPath, err)
	}
	logger.Info("[INFO] Installed %s %s to %s\n", config.ToolName, tag, installPath)

	if err := config.WriteToolConfig(m.layout.ToolConfigPath(), config.DefaultToolConfig()); err != nil {
		logger.Warn("[WARN] Could not write default tool config: %v\n", err)
	} else {
		logger.Info("[INFO] Wrote default configuration to %s\n", m.layout.ToolConfigPath())
	}

	if platform.OS == "linux" {
		if err := desktop.Write(m.layout, installPath); err != nil {
			logger.Warn("[WARN] Could not create desktop entry: %v\n", err)
		}
	}

	if target == m.layout.UserBinDir() {
		guard := rcfile.NewGuard(m.layout)
		if err := guard.Append(); err != nil {
			logger.Warn("[WARN] Could not update shell startup file: %v\n", err)
		}
	}

	// The startup-file edit only affects future sessions, so make the
	// freshly written directory visible to this process before probing.
	ensureOnProcessPath(target)

	resolved, reachable := locate.Probe()
	if !reachable {
		return fmt.Errorf("installation verification failed: %s was copied to %s but does not resolve via the command-search path", config.ToolName, installPath)
	}
	logger.Info("[INFO] Verified: %s resolves to %s\n", config.ToolName, resolved)
	logger.Info("[INFO] Open a new shell session if the command is not yet available there.\n")
	return nil
}

// obtainBinary tries the prebuilt artifact first and falls back to a
// source build. Both paths stage everything under scratch, which the
// caller cleans up after the binary is copied out. Returns the path of a
// ready-to-copy binary and the version tag it corresponds to ("source"
// for builds).
func (m *Manager) obtainBinary(ctx context.Context, platform Platform, scratch string) (string, string, error) {
	asset, err := m.fetcher.LatestAsset(ctx, platform)
	if err != nil {
		logger.Warn("[WARN] Prebuilt fetch failed (%v); falling back to source build\n", err)
		binary, buildErr := buildFromSource(ctx, filepath.Join(scratch, "build"))
		if buildErr != nil {
			return "", "", buildErr
		}
		return binary, "source", nil
	}

	archive, err := asset.Download(ctx, scratch)
	if err != nil {
		logger.Warn("[WARN] Download failed (%v); falling back to source build\n", err)
		binary, buildErr := buildFromSource(ctx, filepath.Join(scratch, "build"))
		if buildErr != nil {
			return "", "", buildErr
		}
		return binary, "source", nil
	}

	extracted := filepath.Join(scratch, "extracted")
	if err := ExtractArchive(archive, extracted); err != nil {
		return "", "", fmt.Errorf("failed to extract %s: %w", archive, err)
	}

	binary, err := FindToolBinary(extracted)
	if err != nil {
		return "", "", err
	}
	return binary, asset.Tag, nil
}

// copyExecutable copies src to dst with executable permissions.
func copyExecutable(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy failed: %w", err)
	}
	return out.Close()
}

// ensureOnProcessPath prepends dir to this process's PATH when absent.
func ensureOnProcessPath(dir string) {
	path := os.Getenv("PATH")
	for _, entry := range strings.Split(path, string(os.PathListSeparator)) {
		if entry == dir {
			return
		}
	}
	_ = os.Setenv("PATH", dir+string(os.PathListSeparator)+path)
}
