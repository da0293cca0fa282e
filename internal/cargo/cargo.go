// Package cargo resolves download URLs for crates on crates.io.
package cargo

import (
	"context"
	"fmt"

	"github.com/git-pkgs/purl2src/client"
	"github.com/git-pkgs/purl2src/internal/core"
)

const (
	ecosystem   = "cargo"
	registryURL = "https://crates.io/api/v1/crates"
)

func init() {
	core.Register(ecosystem, func(c *client.Client) core.Handler {
		return &Handler{client: c}
	})
}

// Handler resolves crates.io download URLs.
type Handler struct {
	client *client.Client
}

func (h *Handler) Ecosystem() string {
	return ecosystem
}

// BuildDownloadURL returns the registry's stable download endpoint, which
// redirects to the crate file:
// https://crates.io/api/v1/crates/serde/1.0.0/download
func (h *Handler) BuildDownloadURL(p *core.PURL) (string, error) {
	if p.Version == "" {
		return "", nil
	}
	return fmt.Sprintf("%s/%s/%s/download", registryURL, p.Name, p.Version), nil
}

// DownloadURLFromAPI is a no-op; the download endpoint above is the API.
func (h *Handler) DownloadURLFromAPI(ctx context.Context, p *core.PURL) (string, error) {
	return "", nil
}

func (h *Handler) FallbackCommand(p *core.PURL) string {
	return fmt.Sprintf("cargo search %s --limit 1", p.Name)
}

func (h *Handler) PackageManagerCommands() []string {
	return []string{"cargo"}
}

// ParseFallbackOutput returns nothing; cargo search confirms existence but
// never prints a download URL.
func (h *Handler) ParseFallbackOutput(output string) string {
	return ""
}
