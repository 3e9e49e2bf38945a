package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/schollz/progressbar/v3"

	"diranalyzer-setup/internal/config"
	"diranalyzer-setup/internal/logger"
)

// ErrNoMatchingAsset is returned when the latest release carries no
// archive for the detected platform.
var ErrNoMatchingAsset = errors.New("no matching release asset")

// archiveSuffixes are the artifact formats the extractor understands.
var archiveSuffixes = []string{".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".zip", ".7z"}

// Asset is a downloadable prebuilt artifact from a release.
type Asset struct {
	Tag  string // release tag, e.g. v1.3.0
	Name string // asset filename
	URL  string // direct download URL
}

// ReleaseFetcher looks up prebuilt artifacts on GitHub releases.
type ReleaseFetcher struct {
	client *github.Client
}

// NewReleaseFetcher builds a fetcher, authenticated when GITHUB_TOKEN is
// set and anonymous otherwise.
func NewReleaseFetcher() *ReleaseFetcher {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return &ReleaseFetcher{client: client}
}

// LatestAsset resolves the latest release and picks the artifact matching
// the platform.
func (f *ReleaseFetcher) LatestAsset(ctx context.Context, platform Platform) (Asset, error) {
	release, _, err := f.client.Repositories.GetLatestRelease(ctx, config.ReleaseOwner, config.ReleaseRepo)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to fetch latest %s release: %w", config.ReleaseRepo, err)
	}

	tag := release.GetTagName()
	logger.Debug("[DEBUG] Latest release %s has %d assets\n", tag, len(release.Assets))

	name, url, err := pickAsset(release.Assets, platform)
	if err != nil {
		return Asset{}, fmt.Errorf("%w for %s in release %s", err, platform, tag)
	}
	return Asset{Tag: tag, Name: name, URL: url}, nil
}

// pickAsset searches the asset list for the first name matching a platform
// pattern, in preference order, restricted to supported archive formats.
func pickAsset(assets []*github.ReleaseAsset, platform Platform) (name, url string, err error) {
	for _, pattern := range platform.AssetPatterns() {
		for _, asset := range assets {
			assetName := strings.ToLower(asset.GetName())
			if strings.Contains(assetName, pattern) && hasArchiveSuffix(assetName) {
				logger.Debug("[DEBUG] Matched asset %s against pattern %s\n", asset.GetName(), pattern)
				return asset.GetName(), asset.GetBrowserDownloadURL(), nil
			}
		}
	}
	return "", "", ErrNoMatchingAsset
}

func hasArchiveSuffix(name string) bool {
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Download fetches the asset into destDir and returns the archive path.
// Progress renders to stderr so stdout stays parseable.
func (a Asset) Download(ctx context.Context, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to GET %s: %w", a.URL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close download body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download of %s failed: HTTP status %d", a.Name, resp.StatusCode)
	}

	destPath := filepath.Join(destDir, a.Name)
	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close %s: %v\n", destPath, cerr)
		}
	}()

	bar := progressbar.NewOptions64(resp.ContentLength,
		progressbar.OptionSetDescription("downloading "+a.Name),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)

	if _, err := io.Copy(io.MultiWriter(out, bar), resp.Body); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	logger.Debug("[DEBUG] Downloaded %s to %s\n", a.Name, destPath)
	return destPath, nil
}
