package datasource

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Cache keeps fetched pages on disk so repeated runs within the TTL do not
// hit the remote site again.
type Cache struct {
	cacheDir string
	ttl      time.Duration
	mu       sync.RWMutex
}

// CacheEntry is the on-disk envelope of one cached page
type CacheEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCache creates the cache directory when missing
func NewCache(cacheDir string, ttl time.Duration) (*Cache, error) {
	if cacheDir == "" {
		cacheDir = "cache/fundamentals"
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{cacheDir: cacheDir, ttl: ttl}, nil
}

// Get returns a cached page. Expired entries are removed and reported as
// misses.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		c.mu.RUnlock()
		return nil, false
	}
	if time.Since(info.ModTime()) > c.ttl {
		c.mu.RUnlock()
		c.Delete(key)
		return nil, false
	}
	raw, err := os.ReadFile(path)
	c.mu.RUnlock()
	if err != nil {
		return nil, false
	}

	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Key != key {
		return nil, false
	}
	return entry.Data, true
}

// Set stores a page under key
func (c *Cache) Set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := json.Marshal(CacheEntry{Key: key, Data: data, Timestamp: time.Now()})
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), raw, 0644)
}

// Delete removes one entry; a missing entry is not an error
func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CleanupExpired removes every entry older than the TTL and returns how many
// were removed.
func (c *Cache) CleanupExpired() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > c.ttl {
			if os.Remove(filepath.Join(c.cacheDir, entry.Name())) == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// GetOrFetch serves key from the cache or calls fetch and stores its result.
// The second return reports a cache hit.
func (c *Cache) GetOrFetch(key string, fetch func() ([]byte, error)) ([]byte, bool, error) {
	if data, ok := c.Get(key); ok {
		return data, true, nil
	}

	data, err := fetch()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(key, data); err != nil {
		return data, false, fmt.Errorf("caching %s: %w", key, err)
	}
	return data, false, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.cacheDir, fmt.Sprintf("%x.json", md5.Sum([]byte(key))))
}

// MakeKey joins key parts
func MakeKey(parts ...string) string {
	return strings.Join(parts, ":")
}
