package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ToolName is the name of the managed binary as it appears on disk and in
// the command-search path.
const ToolName = "diranalyzer"

// Version is the version string of the setup binaries themselves, not of
// the managed tool.
const Version = "1.1.0"

// Environment variables consumed by the setup binaries. Both configure the
// managed analysis tool rather than the setup flow: the install directory
// override relocates the binary, and the minimum-size hint is written into
// the tool's default config file unchanged.
const (
	EnvInstallDir = "DIRANALYZER_INSTALL_DIR"
	EnvMinSize    = "DIRANALYZER_MIN_SIZE"
)

// DefaultMinSize is the duplicate-detection minimum file size (in bytes)
// written to the tool config when DIRANALYZER_MIN_SIZE is unset. It matches
// the analyzer's own built-in default.
const DefaultMinSize = 1024

// ExportedPathLine is the exact line the installer appends to the shell
// startup file when the per-user bin directory is not already on PATH. The
// trailing comment keeps the later exact-text match from ever touching a
// user-authored PATH line of the same shape.
const ExportedPathLine = `export PATH="$HOME/.local/bin:$PATH" # added by diranalyzer installer`

// BackupSuffix is appended to the startup-file path to form the backup
// path. The suffix is fixed so repeated runs overwrite the previous backup
// instead of accumulating copies.
const BackupSuffix = ".diranalyzer.bak"

// GitHub coordinates of the managed tool's releases.
const (
	ReleaseOwner = "kodelint"
	ReleaseRepo  = "diranalyzer"
	ReleaseURL   = "https://github.com/" + ReleaseOwner + "/" + ReleaseRepo
)

// SystemBinDir is the system-wide install directory used when running with
// elevated privilege.
const SystemBinDir = "/usr/local/bin"

// Layout computes every well-known filesystem location from a home
// directory. Locations are recomputed on every invocation; nothing about a
// past installation is persisted, so probing these paths is the only source
// of truth.
type Layout struct {
	Home   string
	TmpDir string
}

// NewLayout builds a Layout for the current user.
func NewLayout() (Layout, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Layout{}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	return LayoutWithHome(home), nil
}

// LayoutWithHome builds a Layout rooted at an explicit home directory.
// Tests use this to sandbox every probe and mutation.
func LayoutWithHome(home string) Layout {
	return Layout{Home: home, TmpDir: os.TempDir()}
}

// UserBinDir is the per-user install directory.
func (l Layout) UserBinDir() string {
	return filepath.Join(l.Home, ".local", "bin")
}

// BinaryDirs returns the fixed, ordered list of well-known directories the
// binary may have been installed into. The order is significant: it is the
// order candidates are probed and reported in.
func (l Layout) BinaryDirs() []string {
	return []string{
		SystemBinDir,
		l.UserBinDir(),
		filepath.Join(l.Home, "bin"), // legacy fallback location of older installers
	}
}

// ConfigDir is the managed tool's configuration directory.
func (l Layout) ConfigDir() string {
	return filepath.Join(l.Home, ".config", ToolName)
}

// ToolConfigPath is the default config file the installer writes.
func (l Layout) ToolConfigPath() string {
	return filepath.Join(l.ConfigDir(), "config.yaml")
}

// CacheDir is the managed tool's cache directory.
func (l Layout) CacheDir() string {
	return filepath.Join(l.Home, ".cache", ToolName)
}

// CacheGlobs returns glob patterns for scratch files the tool may leave
// outside its cache directory. Patterns that match nothing are a normal,
// successful outcome for the removal engine.
func (l Layout) CacheGlobs() []string {
	return []string{
		filepath.Join(l.TmpDir, ToolName+"-*"),
	}
}

// DesktopEntryPath is the desktop-launcher descriptor location.
func (l Layout) DesktopEntryPath() string {
	return filepath.Join(l.Home, ".local", "share", "applications", ToolName+".desktop")
}

// RCPath returns the startup file for the given shell name. Supported
// shells map to their conventional rc files; anything else defaults to
// zsh's, matching the shell detection fallback.
func (l Layout) RCPath(shell string) string {
	rc := map[string]string{
		"zsh":  ".zshrc",
		"bash": ".bashrc",
	}[shell]
	if rc == "" {
		rc = ".zshrc"
	}
	return filepath.Join(l.Home, rc)
}

// InstallDirOverride returns the DIRANALYZER_INSTALL_DIR value, if set.
func InstallDirOverride() string {
	return os.Getenv(EnvInstallDir)
}

// ToolConfig is the managed tool's default configuration, written at
// install time and removed (with its directory) at uninstall time.
type ToolConfig struct {
	MinSize int64 `yaml:"min_size"`
	Export  struct {
		DefaultFormat string `yaml:"default_format"`
	} `yaml:"export"`
}

// DefaultToolConfig builds the config the installer writes, honoring the
// DIRANALYZER_MIN_SIZE pass-through hint. An unparsable hint falls back to
// the built-in default rather than failing the install.
func DefaultToolConfig() ToolConfig {
	var cfg ToolConfig
	cfg.MinSize = DefaultMinSize
	cfg.Export.DefaultFormat = "json"

	if raw := os.Getenv(EnvMinSize); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			cfg.MinSize = v
		}
	}
	return cfg
}

// WriteToolConfig marshals cfg to path, creating parent directories.
func WriteToolConfig(path string, cfg ToolConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal tool config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write tool config %s: %w", path, err)
	}
	return nil
}

// ReadToolConfig loads a previously written tool config. Callers use it for
// display only, so a missing file is reported as an error and left to the
// caller to tolerate.
func ReadToolConfig(path string) (ToolConfig, error) {
	var cfg ToolConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse tool config %s: %w", path, err)
	}
	return cfg, nil
}
