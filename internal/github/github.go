// Package github resolves download URLs for repositories and files hosted on
// GitHub.
package github

import (
	"context"
	"fmt"

	"github.com/git-pkgs/purl2src/client"
	"github.com/git-pkgs/purl2src/internal/core"
)

const (
	ecosystem = "github"
	apiURL    = "https://api.github.com"
)

func init() {
	core.Register(ecosystem, func(c *client.Client) core.Handler {
		return &Handler{client: c, apiURL: apiURL}
	})
}

// Handler resolves GitHub clone, raw-file and release-archive URLs.
type Handler struct {
	client *client.Client
	apiURL string
}

func (h *Handler) Ecosystem() string {
	return ecosystem
}

// BuildDownloadURL returns a raw-file URL when the PURL has a subpath, and a
// clone URL otherwise. A missing version on a subpath PURL falls back to the
// main branch.
func (h *Handler) BuildDownloadURL(p *core.PURL) (string, error) {
	if p.Namespace == "" {
		return "", nil
	}

	if p.Subpath != "" {
		ref := p.Version
		if ref == "" {
			ref = "main"
		}
		return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", p.Namespace, p.Name, ref, p.Subpath), nil
	}

	return fmt.Sprintf("https://github.com/%s/%s.git", p.Namespace, p.Name), nil
}

func (h *Handler) archiveURL(p *core.PURL) string {
	return fmt.Sprintf("https://github.com/%s/%s/archive/refs/tags/%s.tar.gz", p.Namespace, p.Name, p.Version)
}

type release struct {
	TarballURL string `json:"tarball_url"`
}

// DownloadURLFromAPI asks the releases API for the tagged tarball. Branch
// names and versions without a release degrade to the plain archive URL
// without failing the step.
func (h *Handler) DownloadURLFromAPI(ctx context.Context, p *core.PURL) (string, error) {
	if p.Namespace == "" || p.Version == "" {
		return "", nil
	}

	if p.Version == "main" || p.Version == "master" {
		return h.archiveURL(p), nil
	}

	var rel release
	url := fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s", h.apiURL, p.Namespace, p.Name, p.Version)
	if err := h.client.GetJSON(ctx, url, &rel); err != nil || rel.TarballURL == "" {
		return h.archiveURL(p), nil
	}
	return rel.TarballURL, nil
}

func (h *Handler) FallbackCommand(p *core.PURL) string {
	if p.Namespace == "" {
		return ""
	}

	cmd := fmt.Sprintf("git clone https://github.com/%s/%s.git", p.Namespace, p.Name)
	if p.Version != "" {
		cmd += fmt.Sprintf(" && cd %s && git checkout %s", p.Name, p.Version)
	}
	return cmd
}

func (h *Handler) PackageManagerCommands() []string {
	return []string{"git"}
}

// ParseFallbackOutput returns nothing; git clone output has no reusable URL.
func (h *Handler) ParseFallbackOutput(output string) string {
	return ""
}
