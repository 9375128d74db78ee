package main

import (
	"math/rand"
	"testing"
)

func TestWallIndexCandidates(t *testing.T) {
	walls := []LineSegment{
		seg(0, 0, 10, 0),     // horizontal, zero-height bbox
		seg(50, 50, 50, 60),  // vertical, zero-width bbox
		seg(100, 100, 200, 200),
	}
	index := NewWallIndex(walls)

	if got := index.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	got := index.Candidates(Point{5, -5}, Point{5, 5})
	if len(got) != 1 || got[0] != walls[0] {
		t.Errorf("Candidates near first wall = %v, want [%v]", got, walls[0])
	}

	if got := index.Candidates(Point{300, 300}, Point{400, 400}); len(got) != 0 {
		t.Errorf("Candidates far away = %v, want none", got)
	}

	// Touching bounding boxes are still returned.
	got = index.Candidates(Point{10, 0}, Point{20, 20})
	if len(got) != 1 || got[0] != walls[0] {
		t.Errorf("Candidates touching first wall = %v, want [%v]", got, walls[0])
	}
}

func TestWallIndexNil(t *testing.T) {
	var index *WallIndex
	if got := index.Len(); got != 0 {
		t.Errorf("Len() on nil index = %d, want 0", got)
	}
	if got := index.Candidates(Point{0, 0}, Point{1, 1}); got != nil {
		t.Errorf("Candidates() on nil index = %v, want nil", got)
	}
}

// The indexed line-of-sight test must agree with a full scan.
func TestWallIndexMatchesFullScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	randomPoint := func() Point {
		return Point{X: float64(rng.Intn(100)), Y: float64(rng.Intn(100))}
	}

	walls := make([]LineSegment, 40)
	for i := range walls {
		walls[i] = LineSegment{P1: randomPoint(), P2: randomPoint()}
	}
	snapshot, err := NewMapSnapshot("random", walls, nil, nil)
	if err != nil {
		t.Fatalf("NewMapSnapshot() error = %v", err)
	}

	for i := 0; i < 500; i++ {
		a, b := randomPoint(), randomPoint()
		want := HasClearLineOfSight(a, b, walls)
		if got := snapshot.HasClearLineOfSight(a, b); got != want {
			t.Fatalf("indexed line of sight %v -> %v = %v, full scan = %v", a, b, got, want)
		}
	}
}
