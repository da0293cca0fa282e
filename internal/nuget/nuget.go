// Package nuget resolves download URLs for NuGet packages.
package nuget

import (
	"context"
	"fmt"
	"strings"

	"github.com/git-pkgs/purl2src/client"
	"github.com/git-pkgs/purl2src/internal/core"
)

const (
	ecosystem     = "nuget"
	flatContainer = "https://api.nuget.org/v3-flatcontainer"
)

func init() {
	core.Register(ecosystem, func(c *client.Client) core.Handler {
		return &Handler{client: c}
	})
}

// Handler resolves nuget.org flat-container URLs.
type Handler struct {
	client *client.Client
}

func (h *Handler) Ecosystem() string {
	return ecosystem
}

// BuildDownloadURL returns the flat-container nupkg URL. The service only
// serves lowercase identifiers and versions:
// https://api.nuget.org/v3-flatcontainer/newtonsoft.json/13.0.1/newtonsoft.json.13.0.1.nupkg
func (h *Handler) BuildDownloadURL(p *core.PURL) (string, error) {
	if p.Version == "" {
		return "", nil
	}
	name := strings.ToLower(p.Name)
	version := strings.ToLower(p.Version)
	return fmt.Sprintf("%s/%s/%s/%s.%s.nupkg", flatContainer, name, version, name, version), nil
}

// DownloadURLFromAPI is a no-op; the flat container is the canonical source.
func (h *Handler) DownloadURLFromAPI(ctx context.Context, p *core.PURL) (string, error) {
	return "", nil
}

func (h *Handler) FallbackCommand(p *core.PURL) string {
	if p.Version == "" {
		return ""
	}
	return "dotnet nuget list source"
}

func (h *Handler) PackageManagerCommands() []string {
	return []string{"nuget", "dotnet"}
}

// ParseFallbackOutput returns nothing; the source listing has no package
// URLs in it.
func (h *Handler) ParseFallbackOutput(output string) string {
	return ""
}
