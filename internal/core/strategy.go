package core

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
)

// failureMessage is the user-visible error on a fully failed resolution.
const failureMessage = "Failed to resolve download URL"

// URLValidator checks whether a candidate download URL actually exists.
// *client.Client satisfies this.
type URLValidator interface {
	ValidateURL(ctx context.Context, url string) bool
}

// Strategy owns the ordered direct -> api -> fallback dispatch shared by all
// ecosystem handlers. The zero value is not usable; construct with
// NewStrategy, then override fields for testing as needed.
type Strategy struct {
	// Validator accepts or rejects candidate URLs when validation is on.
	Validator URLValidator

	// Runner executes fallback package-manager commands.
	Runner CommandRunner

	// LookPath probes the execution search path for package managers.
	LookPath LookPathFunc

	// Logger receives debug records for absorbed step failures.
	Logger *slog.Logger
}

// NewStrategy returns a Strategy wired to the real subprocess runner and
// PATH probe, validating URLs through v.
func NewStrategy(v URLValidator) *Strategy {
	return &Strategy{
		Validator: v,
		Runner:    shellRunner{},
		LookPath:  exec.LookPath,
		Logger:    slog.Default(),
	}
}

// Resolve runs the handler's resolution steps in fixed order and
// short-circuits on the first accepted URL. The fallback command and its
// availability are computed up front, before any step runs, and reported in
// the Result whether or not the fallback step is reached.
//
// The returned error is non-nil only for malformed input: a PURL the handler
// rejects with *InputError. Every other failure mode is absorbed into a
// failed Result.
func (s *Strategy) Resolve(ctx context.Context, h Handler, p *PURL, validate bool) (*Result, error) {
	purl := p.String()
	fallbackCmd := h.FallbackCommand(p)
	fallbackAvailable := fallbackCmd != "" && s.PackageManagerAvailable(h)

	// Direct step: free, no network.
	url, err := h.BuildDownloadURL(p)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			return nil, err
		}
		s.Logger.Debug("direct step failed", "purl", purl, "error", err)
		url = ""
	}
	if url != "" && s.accept(ctx, url, validate) {
		return s.finish(ctx, h, p, purl, url, MethodDirect, validate, fallbackCmd, fallbackAvailable)
	}

	// API step: one authoritative network round trip.
	url, err = h.DownloadURLFromAPI(ctx, p)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			return nil, err
		}
		s.Logger.Debug("api step failed", "purl", purl, "error", err)
		url = ""
	}
	if url != "" && s.accept(ctx, url, validate) {
		return s.finish(ctx, h, p, purl, url, MethodAPI, validate, fallbackCmd, fallbackAvailable)
	}

	// Fallback step: local package manager, slowest, final.
	if fallbackAvailable {
		out, err := s.Runner.Run(ctx, fallbackCmd, fallbackTimeout)
		if err != nil {
			s.Logger.Debug("fallback step failed", "purl", purl, "error", err)
		} else if url := h.ParseFallbackOutput(out); url != "" && s.accept(ctx, url, validate) {
			return s.finish(ctx, h, p, purl, url, MethodFallback, validate, fallbackCmd, fallbackAvailable)
		}
	}

	return &Result{
		PURL:              purl,
		Method:            MethodNone,
		FallbackCommand:   fallbackCmd,
		FallbackAvailable: fallbackAvailable,
		Error:             failureMessage,
		Status:            StatusFailed,
	}, nil
}

// accept decides whether a candidate URL from any step is usable. With
// validation off every URL is accepted as-is.
func (s *Strategy) accept(ctx context.Context, url string, validate bool) bool {
	if !validate {
		return true
	}
	return s.Validator.ValidateURL(ctx, url)
}

// finish shapes the success Result, running the handler's post-acceptance
// download verification (generic checksum) when validation is on. A
// verification failure is the one path that returns a failed Result with the
// URL still populated.
func (s *Strategy) finish(ctx context.Context, h Handler, p *PURL, purl, url string, method Method, validate bool, fallbackCmd string, fallbackAvailable bool) (*Result, error) {
	if validate {
		if v, ok := h.(DownloadVerifier); ok {
			if err := v.VerifyDownload(ctx, p, url); err != nil {
				return &Result{
					PURL:              purl,
					DownloadURL:       url,
					Validated:         false,
					Method:            method,
					FallbackCommand:   fallbackCmd,
					FallbackAvailable: fallbackAvailable,
					Error:             err.Error(),
					Status:            StatusFailed,
				}, nil
			}
		}
	}

	return &Result{
		PURL:              purl,
		DownloadURL:       url,
		Validated:         validate,
		Method:            method,
		FallbackCommand:   fallbackCmd,
		FallbackAvailable: fallbackAvailable,
		Status:            StatusSuccess,
	}, nil
}

// PackageManagerAvailable reports whether any of the handler's candidate
// executables resolves on the execution search path.
func (s *Strategy) PackageManagerAvailable(h Handler) bool {
	for _, name := range h.PackageManagerCommands() {
		if _, err := s.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// ExecuteFallback runs the handler's fallback command and returns its
// captured stdout. Unlike Resolve, which absorbs subprocess failures, a
// direct call surfaces the *CommandError with the underlying message
// preserved. No command at all is not an error.
func (s *Strategy) ExecuteFallback(ctx context.Context, h Handler, p *PURL) (string, error) {
	cmd := h.FallbackCommand(p)
	if cmd == "" {
		return "", nil
	}
	return s.Runner.Run(ctx, cmd, fallbackTimeout)
}
