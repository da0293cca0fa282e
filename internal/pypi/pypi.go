// Package pypi resolves download URLs for packages on the Python Package
// Index.
package pypi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/git-pkgs/purl2src/client"
	"github.com/git-pkgs/purl2src/internal/core"
)

const (
	ecosystem = "pypi"
	hostedURL = "https://pypi.python.org/packages/source"
	apiURL    = "https://pypi.org/pypi"
)

func init() {
	core.Register(ecosystem, func(c *client.Client) core.Handler {
		return &Handler{client: c, apiURL: apiURL}
	})
}

// Handler resolves PyPI sdist URLs.
type Handler struct {
	client *client.Client
	apiURL string
}

func (h *Handler) Ecosystem() string {
	return ecosystem
}

// BuildDownloadURL returns the legacy hosted-files sdist URL, bucketed by
// the first letter of the project name:
// https://pypi.python.org/packages/source/r/requests/requests-2.31.0.tar.gz
func (h *Handler) BuildDownloadURL(p *core.PURL) (string, error) {
	if p.Version == "" {
		return "", nil
	}
	project := p.Name
	if p.Namespace != "" {
		project = p.Namespace
	}
	first := strings.ToLower(project[:1])
	return fmt.Sprintf("%s/%s/%s/%s-%s.tar.gz", hostedURL, first, p.Name, p.Name, p.Version), nil
}

type releaseFile struct {
	URL         string `json:"url"`
	PackageType string `json:"packagetype"`
}

type projectMetadata struct {
	Releases map[string][]releaseFile `json:"releases"`
	URLs     []releaseFile            `json:"urls"`
}

// DownloadURLFromAPI fetches the project's JSON metadata and picks the sdist
// for the requested version, or for the latest release when the PURL has no
// version.
func (h *Handler) DownloadURLFromAPI(ctx context.Context, p *core.PURL) (string, error) {
	var meta projectMetadata
	url := fmt.Sprintf("%s/%s/json", h.apiURL, p.Name)
	if err := h.client.GetJSON(ctx, url, &meta); err != nil {
		return "", err
	}

	files := meta.URLs
	if p.Version != "" {
		files = meta.Releases[p.Version]
	}
	return pickSdist(files), nil
}

// pickSdist prefers a file explicitly typed as an sdist, then any file whose
// URL looks like a source tarball.
func pickSdist(files []releaseFile) string {
	for _, f := range files {
		if f.PackageType == "sdist" {
			return f.URL
		}
	}
	for _, f := range files {
		if strings.HasSuffix(f.URL, ".tar.gz") {
			return f.URL
		}
	}
	return ""
}

// FallbackCommand shells out to pip with the version pin query-escaped, so
// the "==" survives any shell-adjacent quoting.
func (h *Handler) FallbackCommand(p *core.PURL) string {
	if p.Version == "" {
		return ""
	}
	spec := url.QueryEscape(p.Name + "==" + p.Version)
	return fmt.Sprintf("pip download --no-deps --no-binary :all: %s", spec)
}

func (h *Handler) PackageManagerCommands() []string {
	return []string{"pip", "pip3"}
}

// ParseFallbackOutput scans pip's progress lines for the resolved file URL.
func (h *Handler) ParseFallbackOutput(output string) string {
	for _, line := range strings.Split(output, "\n") {
		for _, marker := range []string{"Downloading ", "from "} {
			if idx := strings.Index(line, marker+"https://"); idx >= 0 {
				rest := line[idx+len(marker):]
				if end := strings.IndexAny(rest, " \t"); end >= 0 {
					rest = rest[:end]
				}
				return rest
			}
		}
	}
	return ""
}
