// Package golang resolves download URLs for Go modules through the module
// proxy protocol.
package golang

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/git-pkgs/purl2src/client"
	"github.com/git-pkgs/purl2src/internal/core"
)

const (
	ecosystem = "golang"
	proxyURL  = "https://proxy.golang.org"
)

func init() {
	core.Register(ecosystem, func(c *client.Client) core.Handler {
		return &Handler{client: c, proxyURL: proxyURL}
	})
}

// Handler resolves module proxy zip URLs.
type Handler struct {
	client   *client.Client
	proxyURL string
}

func (h *Handler) Ecosystem() string {
	return ecosystem
}

func (h *Handler) zipURL(modulePath, version string) string {
	return fmt.Sprintf("%s/%s/@v/%s.zip", h.proxyURL, url.PathEscape(modulePath), version)
}

// BuildDownloadURL returns the proxy zip URL with the module path escaped as
// a single path element, per the proxy protocol:
// https://proxy.golang.org/github.com%2Fgorilla%2Fmux/@v/v1.8.0.zip
func (h *Handler) BuildDownloadURL(p *core.PURL) (string, error) {
	if p.Version == "" {
		return "", nil
	}
	return h.zipURL(p.FullName(), p.Version), nil
}

// DownloadURLFromAPI probes the proxy's .info endpoint to confirm the
// version exists before offering the zip URL.
func (h *Handler) DownloadURLFromAPI(ctx context.Context, p *core.PURL) (string, error) {
	if p.Version == "" {
		return "", nil
	}

	modulePath := p.FullName()
	infoURL := fmt.Sprintf("%s/%s/@v/%s.info", h.proxyURL, url.PathEscape(modulePath), p.Version)
	if _, err := h.client.Get(ctx, infoURL); err != nil {
		return "", err
	}
	return h.zipURL(modulePath, p.Version), nil
}

func (h *Handler) FallbackCommand(p *core.PURL) string {
	if p.Version == "" {
		return ""
	}
	return fmt.Sprintf("go mod download -json %s@%s", p.FullName(), p.Version)
}

func (h *Handler) PackageManagerCommands() []string {
	return []string{"go"}
}

// ParseFallbackOutput reads the go mod download JSON record and maps the
// resolved module back to its proxy zip URL.
func (h *Handler) ParseFallbackOutput(output string) string {
	var info struct {
		Path    string `json:"Path"`
		Version string `json:"Version"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &info); err != nil {
		return ""
	}
	if info.Path == "" || info.Version == "" {
		return ""
	}
	return h.zipURL(info.Path, info.Version)
}
