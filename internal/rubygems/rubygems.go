// Package rubygems resolves download URLs for gems on rubygems.org.
package rubygems

import (
	"context"
	"fmt"
	"net/url"

	"github.com/git-pkgs/purl2src/client"
	"github.com/git-pkgs/purl2src/internal/core"
)

const (
	ecosystem   = "gem"
	downloadURL = "https://rubygems.org/downloads"
	apiURL      = "https://rubygems.org/api/v1/gems"
)

func init() {
	core.Register(ecosystem, func(c *client.Client) core.Handler {
		return &Handler{client: c, apiURL: apiURL}
	})
}

// Handler resolves RubyGems download URLs.
type Handler struct {
	client *client.Client
	apiURL string
}

func (h *Handler) Ecosystem() string {
	return ecosystem
}

// BuildDownloadURL returns the rubygems.org gem file URL:
// https://rubygems.org/downloads/rails-7.0.0.gem
func (h *Handler) BuildDownloadURL(p *core.PURL) (string, error) {
	if p.Version == "" {
		return "", nil
	}
	return fmt.Sprintf("%s/%s-%s.gem", downloadURL, p.Name, p.Version), nil
}

type gemMetadata struct {
	GemURI        string `json:"gem_uri"`
	SourceCodeURI string `json:"source_code_uri"`
	HomepageURI   string `json:"homepage_uri"`
}

// DownloadURLFromAPI queries the gem metadata endpoint. gem_uri wins when
// published; otherwise the source code URI is used, with GitHub repositories
// normalized to clone URLs. A homepage is only trusted when it is a GitHub
// repository, since arbitrary homepages are rarely downloadable.
func (h *Handler) DownloadURLFromAPI(ctx context.Context, p *core.PURL) (string, error) {
	var meta gemMetadata
	metaURL := fmt.Sprintf("%s/%s.json", h.apiURL, p.Name)
	if err := h.client.GetJSON(ctx, metaURL, &meta); err != nil {
		return "", err
	}

	if meta.GemURI != "" {
		return meta.GemURI, nil
	}
	if meta.SourceCodeURI != "" {
		if isGitHubURL(meta.SourceCodeURI) {
			return meta.SourceCodeURI + ".git", nil
		}
		return meta.SourceCodeURI, nil
	}
	if isGitHubURL(meta.HomepageURI) {
		return meta.HomepageURI + ".git", nil
	}
	return "", nil
}

// isGitHubURL requires an exact github.com host; lookalike hosts such as
// github.com.evil.example must not pass.
func isGitHubURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host == "github.com"
}

func (h *Handler) FallbackCommand(p *core.PURL) string {
	if p.Version == "" {
		return ""
	}
	return fmt.Sprintf("gem fetch %s --version %s", p.Name, p.Version)
}

func (h *Handler) PackageManagerCommands() []string {
	return []string{"gem"}
}

// ParseFallbackOutput returns nothing; gem fetch writes the file without
// printing its source URL.
func (h *Handler) ParseFallbackOutput(output string) string {
	return ""
}
