// Package generic resolves download URLs for generic PURLs, which carry
// their location in qualifiers rather than in a registry. It also verifies
// the checksum qualifier against the downloaded bytes.
package generic

import (
	"context"
	"fmt"
	"strings"

	"github.com/git-pkgs/purl2src/client"
	"github.com/git-pkgs/purl2src/internal/core"
)

const ecosystem = "generic"

func init() {
	core.Register(ecosystem, func(c *client.Client) core.Handler {
		return &Handler{client: c}
	})
}

// Handler resolves download_url and vcs_url qualifiers.
type Handler struct {
	client *client.Client
}

func (h *Handler) Ecosystem() string {
	return ecosystem
}

// parseVCSURL splits a vcs_url qualifier into a clean repository URL and an
// optional pinned commit. The git+ scheme prefix and any @commit suffix
// after the scheme separator are peeled off:
// "git+https://github.com/a/b.git@abc123" -> ("https://github.com/a/b.git", "abc123")
func parseVCSURL(vcsURL string) (repo, commit string) {
	repo = strings.TrimPrefix(vcsURL, "git+")
	if sep := strings.Index(repo, "://"); sep >= 0 {
		if at := strings.LastIndex(repo[sep:], "@"); at > 0 {
			commit = repo[sep+at+1:]
			repo = repo[:sep+at]
		}
	}
	return repo, commit
}

// BuildDownloadURL prefers an explicit download_url qualifier and falls back
// to the repository part of vcs_url.
func (h *Handler) BuildDownloadURL(p *core.PURL) (string, error) {
	if u := p.Qualifier("download_url"); u != "" {
		return u, nil
	}
	if vcs := p.Qualifier("vcs_url"); vcs != "" {
		repo, _ := parseVCSURL(vcs)
		return repo, nil
	}
	return "", nil
}

// DownloadURLFromAPI is a no-op; generic PURLs have no registry to ask.
func (h *Handler) DownloadURLFromAPI(ctx context.Context, p *core.PURL) (string, error) {
	return "", nil
}

func (h *Handler) FallbackCommand(p *core.PURL) string {
	vcs := p.Qualifier("vcs_url")
	if vcs == "" {
		return ""
	}

	repo, commit := parseVCSURL(vcs)
	cmd := fmt.Sprintf("git clone %s", repo)
	if commit != "" {
		cmd += fmt.Sprintf(" && git checkout %s", commit)
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

// VerifyDownload downloads the resolved file and compares it against the
// checksum qualifier. The qualifier is "algorithm:hex" with a bare hex
// digest treated as sha256. PURLs without a checksum verify trivially.
func (h *Handler) VerifyDownload(ctx context.Context, p *core.PURL, url string) error {
	checksum := p.Qualifier("checksum")
	if checksum == "" {
		return nil
	}

	algorithm := "sha256"
	digest := checksum
	if alg, rest, ok := strings.Cut(checksum, ":"); ok {
		algorithm = alg
		digest = rest
	}

	_, err := h.client.DownloadAndVerify(ctx, url, digest, algorithm)
	return err
}
