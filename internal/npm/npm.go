// Package npm resolves download URLs for npm packages, including scoped
// packages (pkg:npm/%40angular/core@12.0.0).
package npm

import (
	"context"
	"fmt"
	"strings"

	"github.com/git-pkgs/purl2src/client"
	"github.com/git-pkgs/purl2src/internal/core"
)

const (
	ecosystem   = "npm"
	registryURL = "https://registry.npmjs.org"
)

func init() {
	core.Register(ecosystem, func(c *client.Client) core.Handler {
		return &Handler{client: c, registryURL: registryURL}
	})
}

// Handler resolves npm tarball URLs.
type Handler struct {
	client      *client.Client
	registryURL string
}

func (h *Handler) Ecosystem() string {
	return ecosystem
}

// BuildDownloadURL returns the registry tarball URL. The path segment keeps
// the scope but the filename uses the bare package name:
// https://registry.npmjs.org/@angular/core/-/core-12.0.0.tgz
func (h *Handler) BuildDownloadURL(p *core.PURL) (string, error) {
	if p.Version == "" {
		return "", nil
	}
	return fmt.Sprintf("%s/%s/-/%s-%s.tgz", h.registryURL, p.FullName(), p.Name, p.Version), nil
}

type packageMetadata struct {
	Versions map[string]struct {
		Dist struct {
			Tarball string `json:"tarball"`
		} `json:"dist"`
	} `json:"versions"`
}

// DownloadURLFromAPI fetches package metadata and returns the published
// tarball URL for the requested version.
func (h *Handler) DownloadURLFromAPI(ctx context.Context, p *core.PURL) (string, error) {
	if p.Version == "" {
		return "", nil
	}

	var meta packageMetadata
	url := fmt.Sprintf("%s/%s", h.registryURL, p.FullName())
	if err := h.client.GetJSON(ctx, url, &meta); err != nil {
		return "", err
	}

	v, ok := meta.Versions[p.Version]
	if !ok {
		return "", nil
	}
	return v.Dist.Tarball, nil
}

func (h *Handler) FallbackCommand(p *core.PURL) string {
	if p.Version == "" {
		return ""
	}
	return fmt.Sprintf("npm view %s@%s dist.tarball", p.FullName(), p.Version)
}

func (h *Handler) PackageManagerCommands() []string {
	return []string{"npm"}
}

// ParseFallbackOutput trusts npm view's single-line output when it looks
// like a URL.
func (h *Handler) ParseFallbackOutput(output string) string {
	out := strings.TrimSpace(output)
	if strings.HasPrefix(out, "http://") || strings.HasPrefix(out, "https://") {
		return out
	}
	return ""
}
