// Package filestore persists every collection as a JSON array in its own file
// under a data directory. It is the default backend and needs no external service.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// collection is one JSON file held in memory. Reads share the lock; a write
// replaces the file atomically through a temp file and rename, and the in-memory
// copy is only swapped after the file is durable.
type collection[T any] struct {
	mu    sync.RWMutex
	dir   string
	name  string
	items []T
}

func openCollection[T any](dir, name string) (*collection[T], error) {
	c := &collection[T]{dir: dir, name: name, items: []T{}}

	raw, err := os.ReadFile(c.path())
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: read %s: %w", c.name, err)
	}
	if len(raw) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(raw, &c.items); err != nil {
		return nil, fmt.Errorf("filestore: decode %s: %w", c.name, err)
	}
	return c, nil
}

func (c *collection[T]) path() string {
	return filepath.Join(c.dir, c.name+".json")
}

// view runs fn under the read lock. fn must not retain items.
func (c *collection[T]) view(ctx context.Context, fn func(items []T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fn(c.items)
}

// update runs fn under the write lock on a copy of the items and persists the
// result. Returning errUnchanged from fn skips the write without failing.
func (c *collection[T]) update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	working := make([]T, len(c.items))
	copy(working, c.items)

	next, err := fn(working)
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := c.persist(next); err != nil {
		return err
	}
	c.items = next
	return nil
}

func (c *collection[T]) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *collection[T]) persist(items []T) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode %s: %w", c.name, err)
	}

	tmp, err := os.CreateTemp(c.dir, c.name+".*.tmp")
	if err != nil {
		return fmt.Errorf("filestore: create temp for %s: %w", c.name, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("filestore: write %s: %w", c.name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("filestore: sync %s: %w", c.name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("filestore: close %s: %w", c.name, err)
	}
	if err := os.Rename(tmpName, c.path()); err != nil {
		cleanup()
		return fmt.Errorf("filestore: replace %s: %w", c.name, err)
	}
	return nil
}

var errUnchanged = errors.New("filestore: unchanged")
