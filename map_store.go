package main

import (
	"context"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// MapStore loads floor snapshots on demand and caches them. Snapshots are
// immutable; a reload replaces the cached pointer, so requests already
// holding the old snapshot are unaffected.
type MapStore struct {
	dataDir string

	load func(dataDir, floor string) (*MapSnapshot, error)

	mu     sync.RWMutex
	floors map[string]*MapSnapshot
	// gen is bumped on every invalidation. A load only populates the cache
	// if no invalidation happened while it ran.
	gen uint64
}

// NewMapStore creates a store reading from dataDir
func NewMapStore(dataDir string) *MapStore {
	return &MapStore{
		dataDir: dataDir,
		load:    LoadFloorMap,
		floors:  make(map[string]*MapSnapshot),
	}
}

// Snapshot returns the floor's snapshot, loading it on first use.
func (s *MapStore) Snapshot(floor string) (*MapSnapshot, error) {
	s.mu.RLock()
	snapshot, ok := s.floors[floor]
	gen := s.gen
	s.mu.RUnlock()
	if ok {
		return snapshot, nil
	}

	snapshot, err := s.load(s.dataDir, floor)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.gen == gen {
		s.floors[floor] = snapshot
	}
	s.mu.Unlock()
	return snapshot, nil
}

// Loaded returns the names of the cached floors.
func (s *MapStore) Loaded() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	floors := make([]string, 0, len(s.floors))
	for floor := range s.floors {
		floors = append(floors, floor)
	}
	sort.Strings(floors)
	return floors
}

// Invalidate drops a cached floor so the next request reloads it.
func (s *MapStore) Invalidate(floor string) {
	s.mu.Lock()
	delete(s.floors, floor)
	s.gen++
	s.mu.Unlock()
}

// InvalidateAll drops every cached floor.
func (s *MapStore) InvalidateAll() {
	s.mu.Lock()
	s.floors = make(map[string]*MapSnapshot)
	s.gen++
	s.mu.Unlock()
}

// handleChange invalidates whatever the changed file feeds.
func (s *MapStore) handleChange(path string) {
	base := filepath.Base(path)
	if base == destinationsFile {
		log.Printf("🔄 %s changed, dropping all floors\n", base)
		s.InvalidateAll()
		return
	}
	ext := filepath.Ext(base)
	if ext != ".json" && ext != ".geojson" {
		return
	}
	floor := strings.TrimSuffix(base, ext)
	log.Printf("🔄 Map for floor %q changed\n", floor)
	s.Invalidate(floor)
}

// Watch invalidates cached floors when the authoring tool rewrites their
// files. It blocks until the context is cancelled or an error occurs.
func (s *MapStore) Watch(ctx context.Context, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch directories rather than files so replaced files are still seen
	for _, dir := range []string{s.dataDir, filepath.Join(s.dataDir, mapsDir)} {
		if err := watcher.Add(dir); err != nil {
			return err
		}
		log.Printf("Watching %s for changes", dir)
	}

	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce rapid changes per file
			path := event.Name
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(debounce, func() {
				s.handleChange(path)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
