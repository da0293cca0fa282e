// Command purl2src resolves Package URLs to source download URLs.
//
// Resolve a single PURL:
//
//	purl2src pkg:npm/%40angular/core@12.0.0
//
// Resolve a batch from a file (one PURL per line, # comments allowed) as
// JSON:
//
//	purl2src -file purls.txt -format json
//
// Validation is on by default: candidate URLs are confirmed with a HEAD
// request before being reported. Disable it with -no-validate for offline
// or rate-limited use. Results are cached on disk (default one hour) unless
// -no-cache is given.
//
// Configuration is read from an optional YAML file (-config) and PURL2SRC_*
// environment variables; flags win over both.
//
// The exit status is 0 when every PURL resolved, 1 otherwise.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/git-pkgs/purl2src"
	_ "github.com/git-pkgs/purl2src/all"
	"github.com/git-pkgs/purl2src/cache"
	"github.com/git-pkgs/purl2src/internal/config"
	"github.com/git-pkgs/purl2src/internal/core"
	"github.com/git-pkgs/purl2src/internal/output"
)

const version = "1.0.0"

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML config file")
		file        = flag.String("file", "", "read PURLs from file, one per line")
		format      = flag.String("format", "plain", "output format: plain, json or csv")
		outPath     = flag.String("output", "", "write results to file instead of stdout")
		noValidate  = flag.Bool("no-validate", false, "accept URLs without a HEAD request")
		concurrency = flag.Int("concurrency", 0, "bulk resolution parallelism (0 = default)")
		noCache     = flag.Bool("no-cache", false, "bypass the result cache")
		cacheDir    = flag.String("cache-dir", "", "result cache directory")
		clearCache  = flag.Bool("clear-cache", false, "clear the result cache and exit")
		verbose     = flag.Bool("verbose", false, "enable debug logging")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("purl2src " + version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "purl2src:", err)
		os.Exit(1)
	}
	if *cacheDir != "" {
		cfg.CacheDir = *cacheDir
	}
	if *noCache {
		cfg.CacheEnabled = false
	}
	if *concurrency > 0 {
		cfg.Concurrency = *concurrency
	}

	logger := newLogger(cfg, *verbose)
	slog.SetDefault(logger)

	if *clearCache {
		store, err := cache.New(cfg.CacheDir, cache.WithTTL(time.Duration(cfg.CacheTTL)))
		if err == nil {
			err = store.Clear()
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "purl2src:", err)
			os.Exit(1)
		}
		return
	}

	purls, err := collectPURLs(*file, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "purl2src:", err)
		os.Exit(1)
	}
	if len(purls) == 0 {
		fmt.Fprintln(os.Stderr, "purl2src: no PURLs given; pass them as arguments or with -file")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(cfg, purls, output.Format(*format), *outPath, !*noValidate); err != nil {
		fmt.Fprintln(os.Stderr, "purl2src:", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose || cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	} else if cfg.LogLevel == "warn" {
		level = slog.LevelWarn
	} else if cfg.LogLevel == "error" {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// collectPURLs merges file input with positional arguments. Blank lines and
// # comments in the file are skipped.
func collectPURLs(path string, args []string) ([]string, error) {
	purls := append([]string{}, args...)
	if path == "" {
		return purls, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		purls = append(purls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return purls, nil
}

func run(cfg *config.Config, purls []string, format output.Format, outPath string, validate bool) error {
	ctx := context.Background()

	var store *cache.Cache
	if cfg.CacheEnabled {
		var err error
		store, err = cache.New(cfg.CacheDir, cache.WithTTL(time.Duration(cfg.CacheTTL)))
		if err != nil {
			slog.Warn("cache unavailable", "error", err)
		}
	}

	c := purl2src.NewClient(
		purl2src.WithTimeout(time.Duration(cfg.Timeout)),
		purl2src.WithMaxRetries(cfg.MaxRetries),
		purl2src.WithUserAgent(cfg.UserAgent),
	)
	resolver := purl2src.NewResolver(c)

	results := make(map[string]*core.Result, len(purls))
	var remaining []string
	for _, p := range purls {
		var cached core.Result
		if store != nil && store.Get(p, &cached) {
			slog.Debug("cache hit", "purl", p)
			results[p] = &cached
			continue
		}
		remaining = append(remaining, p)
	}

	for p, r := range resolver.BulkResolve(ctx, remaining, validate, cfg.Concurrency) {
		results[p] = r
		if store != nil && r.Status == core.StatusSuccess {
			if err := store.Set(p, r); err != nil {
				slog.Debug("cache write failed", "purl", p, "error", err)
			}
		}
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := output.Write(out, format, results, purls); err != nil {
		return err
	}

	for _, r := range results {
		if r.Status != core.StatusSuccess {
			return fmt.Errorf("%d of %d PURLs failed to resolve", countFailed(results), len(results))
		}
	}
	return nil
}

func countFailed(results map[string]*core.Result) int {
	n := 0
	for _, r := range results {
		if r.Status != core.StatusSuccess {
			n++
		}
	}
	return n
}
