// Package maven resolves download URLs for Maven artifacts, honoring the
// repository_url, type, classifier and packaging qualifiers.
package maven

import (
	"context"
	"fmt"
	"strings"

	"github.com/git-pkgs/purl2src/client"
	"github.com/git-pkgs/purl2src/internal/core"
)

const (
	ecosystem  = "maven"
	centralURL = "https://repo.maven.apache.org/maven2"
)

func init() {
	core.Register(ecosystem, func(c *client.Client) core.Handler {
		return &Handler{client: c}
	})
}

// Handler resolves Maven repository artifact URLs.
type Handler struct {
	client *client.Client
}

func (h *Handler) Ecosystem() string {
	return ecosystem
}

// artifact is the coordinate set shared by the URL and command builders.
type artifact struct {
	repository string
	groupID    string
	name       string
	version    string
	extension  string
	classifier string
}

func coordinates(p *core.PURL) (artifact, bool) {
	if p.Namespace == "" || p.Version == "" {
		return artifact{}, false
	}

	a := artifact{
		repository: p.Qualifier("repository_url"),
		groupID:    p.Namespace,
		name:       p.Name,
		version:    p.Version,
		extension:  p.Qualifier("type"),
		classifier: p.Qualifier("classifier"),
	}
	if a.extension == "" {
		a.extension = "jar"
	}
	if p.Qualifier("packaging") == "sources" {
		a.classifier = "sources"
		a.extension = "jar"
	}
	return a, true
}

// BuildDownloadURL lays the coordinates out on the standard repository path:
// {repo}/{group/as/path}/{name}/{version}/{name}-{version}[-{classifier}].{ext}
func (h *Handler) BuildDownloadURL(p *core.PURL) (string, error) {
	a, ok := coordinates(p)
	if !ok {
		return "", nil
	}

	repo := a.repository
	if repo == "" {
		repo = centralURL
	}
	groupPath := strings.ReplaceAll(a.groupID, ".", "/")

	file := fmt.Sprintf("%s-%s", a.name, a.version)
	if a.classifier != "" {
		file += "-" + a.classifier
	}
	file += "." + a.extension

	return fmt.Sprintf("%s/%s/%s/%s/%s", repo, groupPath, a.name, a.version, file), nil
}

// DownloadURLFromAPI is a no-op; the direct URL is already authoritative for
// Maven repositories.
func (h *Handler) DownloadURLFromAPI(ctx context.Context, p *core.PURL) (string, error) {
	return "", nil
}

func (h *Handler) FallbackCommand(p *core.PURL) string {
	a, ok := coordinates(p)
	if !ok {
		return ""
	}

	coord := fmt.Sprintf("%s:%s:%s:%s", a.groupID, a.name, a.version, a.extension)
	if a.classifier != "" {
		coord += ":" + a.classifier
	}

	cmd := fmt.Sprintf("mvn dependency:get -Dartifact=%s -Dtransitive=false", coord)
	if a.repository != "" {
		cmd += " -DremoteRepositories=" + a.repository
	}
	return cmd
}

func (h *Handler) PackageManagerCommands() []string {
	return []string{"mvn"}
}

// ParseFallbackOutput returns nothing; mvn dependency:get downloads into the
// local repository without reporting a URL.
func (h *Handler) ParseFallbackOutput(output string) string {
	return ""
}
