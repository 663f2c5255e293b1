// Package cache stores synthesized job contexts on disk, keyed by a hash of
// their inputs.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// DefaultDir is where entries live unless configured otherwise
const DefaultDir = ".reachout/cache"

var validKey = regexp.MustCompile(`^[0-9a-f]{16,128}$`)

// Dir is a file-per-entry cache rooted at a directory
type Dir struct {
	root string
}

func New(root string) *Dir {
	if root == "" {
		root = DefaultDir
	}
	return &Dir{root: root}
}

// Path returns the path to the cache file for a given key
func (d *Dir) Path(key string) string {
	return filepath.Join(d.root, key+".json")
}

// Get reads the entry for key. Any read failure is a miss.
func (d *Dir) Get(key string) ([]byte, bool) {
	if !validKey.MatchString(key) {
		return nil, false
	}
	data, err := os.ReadFile(d.Path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put writes the entry atomically
func (d *Dir) Put(key string, data []byte) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid cache key %q", key)
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(d.root, key+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), d.Path(key))
}

// Exists checks if an entry exists for key
func (d *Dir) Exists(key string) bool {
	_, err := os.Stat(d.Path(key))
	return err == nil
}

// Clear removes entries last written before cutoff. A zero cutoff removes all.
func (d *Dir) Clear(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(d.root)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if !cutoff.IsZero() {
			info, err := e.Info()
			if err != nil || !info.ModTime().Before(cutoff) {
				continue
			}
		}
		if err := os.Remove(filepath.Join(d.root, e.Name())); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
