package gen

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// CacheFile is the name of the fingerprint cache kept in the target
// directory.
const CacheFile = ".tablegen.cache"

// cacheVersion is bumped whenever the cache layout changes; a cache with a
// different version is discarded.
const cacheVersion = 1

// CacheEntry is the fingerprint of one generated file.
type CacheEntry struct {
	Hash string `msgpack:"hash"`
	Size int    `msgpack:"size"`
}

type cacheData struct {
	Version int                   `msgpack:"version"`
	Entries map[string]CacheEntry `msgpack:"entries"`
}

// Cache remembers the content of previously written files so that
// unchanged output is not rewritten, which keeps file watchers and build
// caches of downstream tools quiet. It is safe for concurrent use.
type Cache struct {
	path    string
	mu      sync.Mutex
	entries map[string]CacheEntry
}

// LoadCache reads the cache at path. A missing, unreadable or outdated
// cache yields an empty one.
func LoadCache(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]CacheEntry)}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("tablegen: reading cache: %w", err)
	}
	var data cacheData
	if err := msgpack.Unmarshal(b, &data); err != nil || data.Version != cacheVersion {
		return c, nil
	}
	if data.Entries != nil {
		c.entries = data.Entries
	}
	return c, nil
}

func fingerprint(content []byte) CacheEntry {
	sum := sha256.Sum256(content)
	return CacheEntry{Hash: hex.EncodeToString(sum[:]), Size: len(content)}
}

// Fresh reports whether name was last written with exactly content.
func (c *Cache) Fresh(name string, content []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[name]
	return ok && e == fingerprint(content)
}

// Put records content as the current content of name.
func (c *Cache) Put(name string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = fingerprint(content)
}

// Retain drops the entries of files not in names.
func (c *Cache) Retain(names []string) {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for n := range c.entries {
		if !keep[n] {
			delete(c.entries, n)
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Save writes the cache back to its file.
func (c *Cache) Save() error {
	c.mu.Lock()
	b, err := msgpack.Marshal(cacheData{Version: cacheVersion, Entries: c.entries})
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("tablegen: encoding cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("tablegen: writing cache: %w", err)
	}
	if err := os.WriteFile(c.path, b, 0o644); err != nil {
		return fmt.Errorf("tablegen: writing cache: %w", err)
	}
	return nil
}
