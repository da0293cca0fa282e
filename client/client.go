// Package client provides the HTTP helper used by ecosystem handlers:
// plain GET/HEAD, JSON decoding, HEAD-based URL validation, and streamed
// downloads with checksum verification.
//
// Requests retry on 429 and 5xx responses with exponential backoff, share a
// DNS-cached transport, and are guarded by a per-host circuit breaker so a
// single unhealthy registry cannot stall every resolution.
package client

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenk/backoff"
	"github.com/rs/dnscache"
	circuit "github.com/rubyist/circuitbreaker"
)

// ErrNotFound is returned when the upstream responds with 404.
var ErrNotFound = errors.New("not found")

// HTTPError represents a non-2xx HTTP response.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// IsNotFound returns true if the error represents a 404 response.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// ChecksumError is returned by DownloadAndVerify when the downloaded bytes
// do not match the expected digest.
type ChecksumError struct {
	URL       string
	Algorithm string
	Expected  string
	Actual    string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: expected %s:%s, got %s", e.URL, e.Algorithm, e.Expected, e.Actual)
}

// Client is an HTTP client for registry APIs and artifact downloads.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxRetries int
	baseDelay  time.Duration

	mu       sync.RWMutex
	breakers map[string]*circuit.Breaker
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithMaxRetries sets the maximum number of retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// DefaultClient returns a client with sensible defaults:
// - 30s timeout
// - 3 retries with exponential backoff
// - Retry on 429 and 5xx responses
func DefaultClient() *Client {
	return NewClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	resolver := &dnscache.Resolver{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			resolver.Refresh(true)
		}
	}()

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					host, port, err := net.SplitHostPort(addr)
					if err != nil {
						return nil, err
					}
					ips, err := resolver.LookupHost(ctx, host)
					if err != nil {
						return nil, err
					}
					for _, ip := range ips {
						conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
						if err == nil {
							return conn, nil
						}
					}
					return nil, fmt.Errorf("failed to dial any resolved IP for %s", host)
				},
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		userAgent:  "purl2src/1.0",
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
		breakers:   make(map[string]*circuit.Breaker),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// breaker returns or creates the circuit breaker for the given host.
func (c *Client) breaker(host string) *circuit.Breaker {
	c.mu.RLock()
	b, ok := c.breakers[host]
	c.mu.RUnlock()
	if ok {
		return b
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.breakers[host]; ok {
		return b
	}

	// Trips after 5 consecutive failures, recovers with exponential backoff.
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	b = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(5),
	})
	c.breakers[host] = b
	return b
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}

// do performs one request through the host's circuit breaker, retrying on
// 429/5xx and transient network errors. The caller owns the response body.
func (c *Client) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	br := c.breaker(hostOf(rawURL))
	if !br.Ready() {
		return nil, fmt.Errorf("circuit breaker open for %s", hostOf(rawURL))
	}

	var resp *http.Response
	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "*/*")

		r, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}

		switch {
		case r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500:
			_ = r.Body.Close()
			return &HTTPError{StatusCode: r.StatusCode, URL: rawURL}
		default:
			resp = r
			return nil
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.retryBackOff(), uint64(c.maxRetries)), ctx)
	callErr := br.Call(func() error {
		return backoff.Retry(attempt, policy)
	}, 0)
	if callErr != nil {
		return nil, callErr
	}
	return resp, nil
}

func (c *Client) retryBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.baseDelay
	b.Reset()
	return b
}

// Get fetches a URL and returns the response body.
// A 404 response returns ErrNotFound; other non-2xx statuses return *HTTPError.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	return io.ReadAll(resp.Body)
}

// GetJSON fetches a URL and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return nil
}

// Head performs a HEAD request and returns the response status code.
func (c *Client) Head(ctx context.Context, rawURL string) (int, error) {
	resp, err := c.do(ctx, http.MethodHead, rawURL)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

// ValidateURL reports whether a HEAD request to the URL succeeds with a 2xx
// status. Any network error counts as invalid.
func (c *Client) ValidateURL(ctx context.Context, rawURL string) bool {
	status, err := c.Head(ctx, rawURL)
	if err != nil {
		return false
	}
	return status >= 200 && status < 300
}

// DownloadAndVerify streams the URL's content and returns it. When
// expectedChecksum is non-empty the digest is computed with the given
// algorithm (sha256 when empty) and compared case-insensitively; a mismatch
// returns *ChecksumError.
func (c *Client) DownloadAndVerify(ctx context.Context, rawURL, expectedChecksum, algorithm string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	if algorithm == "" {
		algorithm = "sha256"
	}
	h, err := newHash(algorithm)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(io.MultiWriter(h, &buf), resp.Body); err != nil {
		return nil, fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	data := buf.Bytes()

	if expectedChecksum != "" {
		actual := hex.EncodeToString(h.Sum(nil))
		if !strings.EqualFold(actual, expectedChecksum) {
			return nil, &ChecksumError{
				URL:       rawURL,
				Algorithm: algorithm,
				Expected:  strings.ToLower(expectedChecksum),
				Actual:    actual,
			}
		}
	}

	return data, nil
}

func newHash(algorithm string) (hash.Hash, error) {
	switch strings.ToLower(algorithm) {
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	case "sha1":
		return sha1.New(), nil
	case "md5":
		return md5.New(), nil
	default:
		return nil, fmt.Errorf("unsupported checksum algorithm: %s", algorithm)
	}
}
