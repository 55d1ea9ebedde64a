package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"
)

// fileEntry is the on-disk form of a cached id
type fileEntry struct {
	Value     int       `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// FileCache implements the Cache interface using filesystem storage
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in dir.
// If dir is empty, uses ~/.review3_cache
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		usr, err := user.Current()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(usr.HomeDir, ".review3_cache")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	return &FileCache{dir: dir}, nil
}

// Dir returns the directory the cache writes to
func (fc *FileCache) Dir() string {
	return fc.dir
}

// Get implements Reader
func (fc *FileCache) Get(_ context.Context, key string) (int, bool) {
	data, err := os.ReadFile(fc.path(key))
	if err != nil {
		return 0, false
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return 0, false
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		return 0, false
	}

	return entry.Value, true
}

// Set implements Writer
func (fc *FileCache) Set(_ context.Context, key string, value int, ttl time.Duration) error {
	entry := fileEntry{Value: value, FetchedAt: time.Now()}
	if ttl > 0 {
		entry.ExpiresAt = entry.FetchedAt.Add(ttl)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	// Write to temporary file first, then rename (atomic operation)
	path := fc.path(key)
	tmpPath := path + fmt.Sprintf(".tmp.%d", rand.Int())
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// path generates the full filesystem path for a cache key
func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, sanitizeKey(key)+".json")
}

// sanitizeKey ensures the key is safe for use as a filename
func sanitizeKey(key string) string {
	// Search terms are free text; long ones go through a hash
	if len(key) > 200 {
		hash := md5.Sum([]byte(key))
		return fmt.Sprintf("hash_%x", hash)
	}

	unsafe := []string{"/", "\\", ":", "?", "&", "=", "#", "<", ">", "|", "*", "\"", " "}
	result := key
	for _, char := range unsafe {
		result = strings.ReplaceAll(result, char, "_")
	}

	// keep "a/b" and "a_b" apart
	if result != key {
		hash := md5.Sum([]byte(key))
		result = fmt.Sprintf("%s_%x", result, hash[:4])
	}

	return result
}

var _ Cache = (*FileCache)(nil)
