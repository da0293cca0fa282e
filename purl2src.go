// Package purl2src resolves Package URLs (PURLs) to source download URLs.
//
// Each supported ecosystem registers a handler that knows how to build or
// discover the download URL for its packages. Resolution tries three steps
// in order, stopping at the first hit: a template-built direct URL, a
// registry API lookup, then a local package-manager fallback command.
//
// Handlers register at import time. Import the ecosystems you need, or pull
// in everything:
//
//	import _ "github.com/git-pkgs/purl2src/all"
//
// Then:
//
//	result, err := purl2src.Resolve(ctx, "pkg:npm/%40angular/core@12.0.0", true)
package purl2src

import (
	"context"

	"github.com/git-pkgs/purl2src/client"
	"github.com/git-pkgs/purl2src/internal/core"
)

// Core types, re-exported.
type (
	// Result is the outcome of resolving one PURL.
	Result = core.Result

	// PURL is a parsed Package URL.
	PURL = core.PURL

	// Handler is a per-ecosystem resolution strategy.
	Handler = core.Handler

	// Resolver runs resolutions against a shared HTTP client.
	Resolver = core.Resolver

	// Method identifies which resolution step produced a URL.
	Method = core.Method

	// Status is the overall outcome of a resolution.
	Status = core.Status

	// InputError reports malformed or insufficient caller input.
	InputError = core.InputError

	// CommandError reports a failed fallback command.
	CommandError = core.CommandError

	// Client is the shared HTTP client with retry and circuit breaking.
	Client = client.Client

	// Option configures a Client.
	Option = client.Option
)

const (
	MethodDirect   = core.MethodDirect
	MethodAPI      = core.MethodAPI
	MethodFallback = core.MethodFallback
	MethodNone     = core.MethodNone

	StatusSuccess = core.StatusSuccess
	StatusFailed  = core.StatusFailed
)

// Client construction, re-exported.
var (
	DefaultClient = client.DefaultClient
	NewClient     = client.NewClient

	WithTimeout    = client.WithTimeout
	WithMaxRetries = client.WithMaxRetries
	WithUserAgent  = client.WithUserAgent
	WithHTTPClient = client.WithHTTPClient
)

// ParsePURL parses a Package URL string into its components.
func ParsePURL(purl string) (*PURL, error) {
	return core.ParsePURL(purl)
}

// NewResolver returns a Resolver backed by c.
// If c is nil, client.DefaultClient() is used.
func NewResolver(c *Client) *Resolver {
	return core.NewResolver(c)
}

// NewHandler creates a handler for the given ecosystem.
// If c is nil, client.DefaultClient() is used.
func NewHandler(ecosystem string, c *Client) (Handler, error) {
	return core.New(ecosystem, c)
}

// SupportedEcosystems returns all registered ecosystem types, sorted.
// Note: ecosystems must be imported to be registered.
func SupportedEcosystems() []string {
	return core.SupportedEcosystems()
}

// Resolve resolves one PURL with a default resolver. When validate is true,
// candidate URLs are confirmed with a HEAD request before being accepted.
func Resolve(ctx context.Context, purl string, validate bool) (*Result, error) {
	return core.NewResolver(nil).Resolve(ctx, purl, validate)
}

// BulkResolve resolves many PURLs concurrently with a default resolver,
// keyed by the input strings. concurrency <= 0 selects the default cap.
func BulkResolve(ctx context.Context, purls []string, validate bool, concurrency int) map[string]*Result {
	return core.NewResolver(nil).BulkResolve(ctx, purls, validate, concurrency)
}
