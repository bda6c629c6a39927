package aws

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores pricing lookups as JSON files so repeated runs over
// the same inventory don't re-query the Pricing API.
type FileCache struct {
	dir string
}

// NewFileCache creates a cache rooted at dir.
func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir}
}

// Get loads a cached value into dest if the entry exists and is younger
// than ttl.
func (fc *FileCache) Get(key string, ttl time.Duration, dest interface{}) bool {
	path := fc.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) > ttl {
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// Set stores a value under key.
func (fc *FileCache) Set(key string, value interface{}) error {
	if err := os.MkdirAll(fc.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling cache value: %w", err)
	}

	if err := os.WriteFile(fc.path(key), data, 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Clear removes all cached entries.
func (fc *FileCache) Clear() error {
	entries, err := os.ReadDir(fc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		if err := os.Remove(filepath.Join(fc.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, key+".json")
}
