package install

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrUnsupportedPlatform is returned before any network attempt when the
// host is outside the supported OS/architecture matrix.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Platform is the normalized OS/architecture pair a prebuilt artifact is
// published for. Exactly two CPU architectures and two OS families are
// supported; everything else is fatal.
type Platform struct {
	OS   string // "linux" or "darwin"
	Arch string // "amd64" or "arm64"
}

// DetectPlatform normalizes the running host into the supported matrix.
func DetectPlatform() (Platform, error) {
	return normalizePlatform(runtime.GOOS, runtime.GOARCH)
}

func normalizePlatform(goos, goarch string) (Platform, error) {
	switch goos {
	case "linux", "darwin":
	default:
		return Platform{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
	}
	switch goarch {
	case "amd64", "arm64":
	default:
		return Platform{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
	}
	return Platform{OS: goos, Arch: goarch}, nil
}

func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}

// AssetPatterns returns the release asset name fragments to match, in
// preference order. Release naming is not uniform across ecosystems, so
// both Go-style and Rust-style OS/arch spellings are accepted.
func (p Platform) AssetPatterns() []string {
	osNames := []string{p.OS}
	if p.OS == "darwin" {
		osNames = append(osNames, "macos", "apple-darwin")
	} else {
		osNames = append(osNames, "unknown-linux")
	}

	archNames := []string{p.Arch}
	if p.Arch == "amd64" {
		archNames = append(archNames, "x86_64")
	} else {
		archNames = append(archNames, "aarch64")
	}

	var patterns []string
	for _, o := range osNames {
		for _, a := range archNames {
			patterns = append(patterns,
				o+"-"+a,
				o+"_"+a,
				a+"-"+o,
				a+"_"+o,
			)
		}
	}
	return patterns
}
