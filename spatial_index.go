package main

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

// indexPadding widens every bounding box so that axis-aligned walls and
// queries still get a non-degenerate rectangle, and so that touching
// geometry is never pruned away.
const indexPadding = 1e-3

// WallEntry wraps a wall for R-tree storage
type WallEntry struct {
	Wall LineSegment
	BBox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (w *WallEntry) Bounds() rtreego.Rect {
	return w.BBox
}

// WallIndex manages wall spatial queries. A nil or empty index reports no
// candidates.
type WallIndex struct {
	tree  *rtreego.Rtree
	walls []LineSegment
}

// NewWallIndex creates a new spatial index over the walls
func NewWallIndex(walls []LineSegment) *WallIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, wall := range walls {
		bbox, err := segmentBoundingBox(wall.P1, wall.P2)
		if err != nil {
			continue
		}
		tree.Insert(&WallEntry{Wall: wall, BBox: bbox})
	}

	return &WallIndex{tree: tree, walls: walls}
}

// Len returns the number of indexed walls.
func (wi *WallIndex) Len() int {
	if wi == nil {
		return 0
	}
	return wi.tree.Size()
}

// Candidates returns the walls whose bounding box intersects the bounding
// box of segment ab. Only these can block the line of sight between a and b.
func (wi *WallIndex) Candidates(a, b Point) []LineSegment {
	if wi == nil || wi.tree.Size() == 0 {
		return nil
	}

	bbox, err := segmentBoundingBox(a, b)
	if err != nil {
		// Fall back to a full scan rather than risk a false clear verdict.
		return wi.walls
	}

	results := wi.tree.SearchIntersect(bbox)
	walls := make([]LineSegment, 0, len(results))
	for _, item := range results {
		walls = append(walls, item.(*WallEntry).Wall)
	}

	return walls
}

// segmentBoundingBox computes the padded axis-aligned bounding box of pq
func segmentBoundingBox(p, q Point) (rtreego.Rect, error) {
	minX, maxX := math.Min(p.X, q.X), math.Max(p.X, q.X)
	minY, maxY := math.Min(p.Y, q.Y), math.Max(p.Y, q.Y)

	return rtreego.NewRect(
		rtreego.Point{minX - indexPadding, minY - indexPadding},
		[]float64{maxX - minX + 2*indexPadding, maxY - minY + 2*indexPadding},
	)
}
