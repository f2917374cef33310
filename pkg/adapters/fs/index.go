package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// IndexFile is the name of the first-seen index inside the system directory.
const IndexFile = "created.json"

// indexEntry records when a file was first seen.
type indexEntry struct {
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"lastModified"`
}

// index is the persistent state of createdIndex.
type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // Key is the relative path, e.g. "notes/foo.md".
}

// createdIndex remembers the creation time of every document. Portable file systems do not
// expose a birth time, so the modification time at first sight stands in for it.
type createdIndex struct {
	Path string

	mu     sync.Mutex
	loaded bool
	dirty  bool
	index  index
}

func newCreatedIndex(vaultPath, systemDir string) *createdIndex {
	return &createdIndex{
		Path:  filepath.Join(vaultPath, systemDir, IndexFile),
		index: index{Version: 1, Entries: make(map[string]*indexEntry)},
	}
}

// load reads the index once. A missing or corrupt file starts an empty index.
func (c *createdIndex) load() error {
	if c.loaded {
		return nil
	}
	c.loaded = true

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}
	if err := json.Unmarshal(data, &c.index); err != nil || c.index.Entries == nil {
		c.index.Entries = make(map[string]*indexEntry)
	}
	return nil
}

// Created returns the first-seen time of relPath, recording mtime when the path is new.
func (c *createdIndex) Created(relPath string, mtime time.Time) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.load(); err != nil {
		return mtime, err
	}
	entry, ok := c.index.Entries[relPath]
	if !ok {
		entry = &indexEntry{Created: mtime}
		c.index.Entries[relPath] = entry
		c.dirty = true
	}
	if !entry.LastModified.Equal(mtime) {
		entry.LastModified = mtime
		c.dirty = true
	}
	return entry.Created, nil
}

// Prune drops entries whose path is not in keep.
func (c *createdIndex) Prune(keep map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path := range c.index.Entries {
		if !keep[path] {
			delete(c.index.Entries, path)
			c.dirty = true
		}
	}
}

// Save persists the index if it changed.
func (c *createdIndex) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}
	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Len returns the number of indexed paths.
func (c *createdIndex) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index.Entries)
}
