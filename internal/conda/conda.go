// Package conda resolves download URLs for Conda packages. Conda PURLs are
// only fully addressable with the build, channel and subdir qualifiers, so
// this is the one handler that rejects under-specified input outright.
package conda

import (
	"context"
	"fmt"
	"strings"

	"github.com/git-pkgs/purl2src/client"
	"github.com/git-pkgs/purl2src/internal/core"
)

const (
	ecosystem   = "conda"
	anacondaURL = "https://repo.anaconda.com/pkgs/main"
	channelURL  = "https://anaconda.org"
)

func init() {
	core.Register(ecosystem, func(c *client.Client) core.Handler {
		return &Handler{client: c}
	})
}

// Handler resolves Anaconda repository URLs.
type Handler struct {
	client *client.Client
}

func (h *Handler) Ecosystem() string {
	return ecosystem
}

// BuildDownloadURL returns the channel-appropriate tarball URL. The main and
// defaults channels live on repo.anaconda.com; everything else goes through
// anaconda.org.
func (h *Handler) BuildDownloadURL(p *core.PURL) (string, error) {
	if p.Version == "" {
		return "", nil
	}

	build := p.Qualifier("build")
	if build == "" {
		return "", core.MissingQualifierError(ecosystem, "build")
	}
	channel := p.Qualifier("channel")
	if channel == "" {
		return "", core.MissingQualifierError(ecosystem, "channel")
	}
	subdir := p.Qualifier("subdir")
	if subdir == "" {
		return "", core.MissingQualifierError(ecosystem, "subdir")
	}

	file := fmt.Sprintf("%s-%s-%s.tar.bz2", p.Name, p.Version, build)
	if channel == "main" || channel == "defaults" {
		return fmt.Sprintf("%s/%s/%s", anacondaURL, subdir, file), nil
	}
	return fmt.Sprintf("%s/%s/%s/%s/download/%s/%s", channelURL, channel, p.Name, p.Version, subdir, file), nil
}

// DownloadURLFromAPI is a no-op; the qualifier-built URL is already exact.
func (h *Handler) DownloadURLFromAPI(ctx context.Context, p *core.PURL) (string, error) {
	return "", nil
}

func (h *Handler) FallbackCommand(p *core.PURL) string {
	if p.Version == "" {
		return ""
	}

	channel := p.Qualifier("channel")
	if channel == "" {
		channel = "conda-forge"
	}
	return fmt.Sprintf("conda search -c %s %s=%s --info", channel, p.Name, p.Version)
}

func (h *Handler) PackageManagerCommands() []string {
	return []string{"conda", "mamba", "micromamba"}
}

// ParseFallbackOutput picks the url field out of conda search --info's
// key-value listing.
func (h *Handler) ParseFallbackOutput(output string) string {
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "url") {
			continue
		}
		_, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if strings.HasPrefix(value, "http") {
			return value
		}
	}
	return ""
}
