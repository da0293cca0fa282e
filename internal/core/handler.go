package core

import "context"

// Handler is the per-ecosystem resolution strategy. Implementations are
// stateless aside from a shared HTTP client reference and are safe for
// concurrent use.
type Handler interface {
	// Ecosystem returns the PURL type this handler serves (e.g. "npm", "gem").
	Ecosystem() string

	// BuildDownloadURL constructs a download URL from template rules alone,
	// with no network call. ("", nil) means the direct step has no URL to
	// offer. An *InputError return aborts the whole resolution.
	BuildDownloadURL(p *PURL) (string, error)

	// DownloadURLFromAPI queries the ecosystem's registry API for a download
	// URL. ("", nil) means the API step found nothing.
	DownloadURLFromAPI(ctx context.Context, p *PURL) (string, error)

	// FallbackCommand returns the package-manager command line that could
	// fetch the package locally, or "" when none applies.
	FallbackCommand(p *PURL) string

	// PackageManagerCommands lists the candidate executables for the
	// fallback command; the fallback is available iff at least one resolves
	// on PATH.
	PackageManagerCommands() []string

	// ParseFallbackOutput extracts a download URL from the fallback
	// command's captured stdout, or "" when the output has no URL.
	ParseFallbackOutput(output string) string
}

// DownloadVerifier is implemented by handlers that verify downloaded content
// after a URL has been accepted, such as the generic handler's checksum
// qualifier support. A *client.ChecksumError return becomes a failed Result
// that still carries the URL.
type DownloadVerifier interface {
	VerifyDownload(ctx context.Context, p *PURL, url string) error
}
