// Package cache stores resolution results on disk with a TTL, fronted by an
// in-process map, so repeated lookups of the same PURL skip the network.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultTTL is how long a cached result stays fresh.
const DefaultTTL = time.Hour

// entry is the on-disk envelope around a cached value.
type entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// Cache is a TTL cache keyed by PURL string. The zero value is not usable;
// construct with New.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time

	mu  sync.RWMutex
	mem map[string]entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// DefaultDir returns the per-user cache directory.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "purl2src")
	}
	return filepath.Join(base, "purl2src")
}

// New opens a cache rooted at dir, creating it if needed. An empty dir uses
// DefaultDir.
func New(dir string, opts ...Option) (*Cache, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	c := &Cache{
		dir: dir,
		ttl: DefaultTTL,
		now: time.Now,
		mem: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// path maps a PURL to its cache file. The key is hashed so qualifiers,
// slashes and scope markers never leak into filenames.
func (c *Cache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])[:16]+".json")
}

func (c *Cache) fresh(e entry) bool {
	age := c.now().Unix() - e.Timestamp
	return age >= 0 && time.Duration(age)*time.Second < c.ttl
}

// Get loads the cached value for key into v. It reports whether a fresh
// entry was found; stale and unreadable entries are misses.
func (c *Cache) Get(key string, v any) bool {
	c.mu.RLock()
	e, ok := c.mem[key]
	c.mu.RUnlock()

	if !ok {
		raw, err := os.ReadFile(c.path(key))
		if err != nil {
			return false
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return false
		}
		c.mu.Lock()
		c.mem[key] = e
		c.mu.Unlock()
	}

	if !c.fresh(e) {
		return false
	}
	return json.Unmarshal(e.Data, v) == nil
}

// Set stores v under key, in memory and on disk. The memory copy is written
// first, so a failed disk write still serves the current process.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	e := entry{Data: data, Timestamp: c.now().Unix()}
	c.mu.Lock()
	c.mem[key] = e
	c.mu.Unlock()

	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), raw, 0o644)
}

// Clear removes every entry, in memory and on disk.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.mem = make(map[string]entry)
	c.mu.Unlock()

	files, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return err
		}
	}
	return nil
}
