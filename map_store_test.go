package main

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestMapStoreCachesSnapshots(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "maps", "a.json"), basicFloorJSON)
	writeFile(t, filepath.Join(dir, "maps", "b.json"), basicFloorJSON)
	store := NewMapStore(dir)

	first, err := store.Snapshot("a")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	second, err := store.Snapshot("a")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if first != second {
		t.Error("second Snapshot() call did not return the cached snapshot")
	}

	if _, err := store.Snapshot("b"); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if got, want := store.Loaded(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Loaded() = %v, want %v", got, want)
	}

	if _, err := store.Snapshot("nope"); !errors.Is(err, ErrUnknownFloor) {
		t.Errorf("unknown floor: err = %v, want ErrUnknownFloor", err)
	}
}

func TestMapStoreHandleChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "maps", "a.json"), basicFloorJSON)
	writeFile(t, filepath.Join(dir, "maps", "b.json"), basicFloorJSON)
	store := NewMapStore(dir)
	store.Snapshot("a")
	store.Snapshot("b")

	store.handleChange(filepath.Join(dir, "maps", "notes.txt"))
	if got := len(store.Loaded()); got != 2 {
		t.Errorf("unrelated file dropped floors, %d left", got)
	}

	store.handleChange(filepath.Join(dir, "maps", "a.json"))
	if got, want := store.Loaded(), []string{"b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Loaded() = %v, want %v", got, want)
	}

	old, _ := store.Snapshot("b")
	writeFile(t, filepath.Join(dir, "maps", "b.json"), `{"walls": [], "waypoints": [[1, 1]]}`)
	store.handleChange(filepath.Join(dir, destinationsFile))
	if got := len(store.Loaded()); got != 0 {
		t.Errorf("destinations change left %d floors cached", got)
	}

	reloaded, err := store.Snapshot("b")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if reloaded == old || len(reloaded.Waypoints()) != 1 {
		t.Errorf("floor b was not reloaded from disk: %v", reloaded.Waypoints())
	}
	if len(old.Waypoints()) != 2 {
		t.Errorf("old snapshot changed after reload: %v", old.Waypoints())
	}
}

func TestMapStoreInvalidateDuringLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "maps", "a.json"), basicFloorJSON)
	store := NewMapStore(dir)

	// The file changes while the old contents are being parsed.
	store.load = func(dataDir, floor string) (*MapSnapshot, error) {
		snapshot, err := LoadFloorMap(dataDir, floor)
		store.Invalidate(floor)
		return snapshot, err
	}
	stale, err := store.Snapshot("a")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if stale == nil {
		t.Fatal("Snapshot() returned nil")
	}
	if got := store.Loaded(); len(got) != 0 {
		t.Errorf("Loaded() = %v, want the stale load left uncached", got)
	}

	store.load = LoadFloorMap
	fresh, err := store.Snapshot("a")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if fresh == stale {
		t.Error("Snapshot() returned the stale snapshot")
	}
	if got, want := store.Loaded(), []string{"a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Loaded() = %v, want %v", got, want)
	}
}

func TestMapStoreWatch(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "maps", "a.json")
	writeFile(t, mapPath, basicFloorJSON)
	writeFile(t, filepath.Join(dir, "maps", "b.json"), basicFloorJSON)
	store := NewMapStore(dir)
	store.Snapshot("a")
	store.Snapshot("b")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx, 10*time.Millisecond) }()

	// The watcher may not be registered yet, so keep rewriting until it sees one.
	deadline := time.Now().Add(5 * time.Second)
	for {
		writeFile(t, mapPath, `{"walls": [], "waypoints": [[1, 1]]}`)
		time.Sleep(50 * time.Millisecond)
		if got, want := store.Loaded(), []string{"b"}; reflect.DeepEqual(got, want) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Loaded() = %v after rewriting a.json, want [b]", store.Loaded())
		}
	}

	reloaded, err := store.Snapshot("a")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if got := reloaded.Waypoints(); !reflect.DeepEqual(got, []Point{{1, 1}}) {
		t.Errorf("Waypoints() = %v, want the rewritten map", got)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Watch() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}
