package core

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/git-pkgs/purl2src/client"
)

// defaultConcurrency is the bulk resolution parallelism cap.
const defaultConcurrency = 15

// Resolver ties the handler registry to the dispatch strategy. One Resolver
// serves any number of ecosystems and is safe for concurrent use.
type Resolver struct {
	client   *client.Client
	strategy *Strategy
}

// NewResolver returns a Resolver backed by c.
// If c is nil, client.DefaultClient() is used.
func NewResolver(c *client.Client) *Resolver {
	if c == nil {
		c = client.DefaultClient()
	}
	return &Resolver{
		client:   c,
		strategy: NewStrategy(c),
	}
}

// Strategy exposes the resolver's dispatch engine, mainly so callers can
// swap the runner or PATH probe in tests.
func (r *Resolver) Strategy() *Strategy {
	return r.strategy
}

// Resolve parses purl, looks up its ecosystem handler and runs the full
// dispatch. Parse failures and unknown ecosystems surface as errors; step
// failures inside the dispatch surface as a failed Result.
func (r *Resolver) Resolve(ctx context.Context, purl string, validate bool) (*Result, error) {
	p, err := ParsePURL(purl)
	if err != nil {
		return nil, err
	}

	h, err := New(p.Type, r.client)
	if err != nil {
		return nil, err
	}

	return r.strategy.Resolve(ctx, h, p, validate)
}

// BulkResolve resolves many PURLs concurrently, capped at concurrency
// workers (defaultConcurrency when <= 0). The result map is keyed by the
// input strings; a PURL that fails to parse or names an unknown ecosystem
// maps to a failed Result carrying the error text rather than aborting the
// batch.
func (r *Resolver) BulkResolve(ctx context.Context, purls []string, validate bool, concurrency int) map[string]*Result {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	results := make(map[string]*Result, len(purls))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, purl := range purls {
		purl := purl
		g.Go(func() error {
			res, err := r.Resolve(ctx, purl, validate)
			if err != nil {
				res = &Result{
					PURL:   purl,
					Method: MethodNone,
					Error:  err.Error(),
					Status: StatusFailed,
				}
			}
			mu.Lock()
			results[purl] = res
			mu.Unlock()
			return nil
		})
	}

	g.Wait()
	return results
}
