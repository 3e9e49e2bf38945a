package install

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"diranalyzer-setup/internal/config"
	"diranalyzer-setup/internal/logger"
)

// buildFromSource compiles the analyzer with the Rust toolchain as the
// fallback when no prebuilt artifact could be fetched. The toolchain is an
// opaque collaborator: its failure is fatal and never retried. Returns the
// path of the built binary inside buildRoot, whose lifetime the caller
// owns.
func buildFromSource(ctx context.Context, buildRoot string) (string, error) {
	if _, err := exec.LookPath("cargo"); err != nil {
		return "", fmt.Errorf("cargo toolchain not found, cannot build %s from source: %w", config.ToolName, err)
	}

	if err := os.MkdirAll(buildRoot, 0755); err != nil {
		return "", fmt.Errorf("failed to create build directory: %w", err)
	}

	logger.Info("[INFO] Building %s from source (this may take a while)...\n", config.ToolName)
	cmd := exec.CommandContext(ctx, "cargo", "install",
		"--git", config.ReleaseURL,
		"--root", buildRoot,
		"--locked",
		config.ToolName,
	)
	logger.Debug("[DEBUG] Running command: %v\n", cmd.Args)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("source build failed: %w\nOutput: %s", err, output)
	}

	binary := filepath.Join(buildRoot, "bin", config.ToolName)
	if _, err := os.Stat(binary); err != nil {
		return "", fmt.Errorf("source build produced no binary at %s: %w", binary, err)
	}
	return binary, nil
}
