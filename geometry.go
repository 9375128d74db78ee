package main

import "math"

// Epsilon is the tolerance used by the orientation and on-segment tests.
// Map coordinates are floorplan pixels (hundreds to a few thousand), so a
// relative tolerance of 1e-9 sits well below any authored precision.
const Epsilon = 1e-9

// Point is a position in map (pixel) coordinates. x grows to the right and
// y grows downward, as on the floorplan image.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return math.Hypot(other.X-p.X, other.Y-p.Y)
}

// BearingTo returns the world bearing in degrees from p to other.
// Because y points down, bearings increase clockwise on the map.
func (p Point) BearingTo(other Point) float64 {
	return math.Atan2(other.Y-p.Y, other.X-p.X) * 180 / math.Pi
}

func (p Point) isFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// LineSegment represents a line segment between two points
type LineSegment struct {
	P1, P2 Point
}

// Length returns the Euclidean length of the segment.
func (s LineSegment) Length() float64 {
	return s.P1.Distance(s.P2)
}

// DoSegmentsIntersect reports whether two closed segments cross or touch.
// Shared endpoints, an endpoint lying on the other segment and collinear
// overlap all count as intersecting.
func DoSegmentsIntersect(seg1, seg2 LineSegment) bool {
	p1, p2 := seg1.P1, seg1.P2
	p3, p4 := seg2.P1, seg2.P2

	d1 := orientation(p3, p4, p1)
	d2 := orientation(p3, p4, p2)
	d3 := orientation(p1, p2, p3)
	d4 := orientation(p1, p2, p4)

	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}

	// Collinear and touching cases
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// orientation returns the sign of the cross product (p2-p1) x (p3-p1):
// 0 when the three points are collinear within tolerance.
// The tolerance is relative to the lengths involved so the test behaves the
// same for small rooms and large floors.
func orientation(p1, p2, p3 Point) int {
	cross := (p2.X-p1.X)*(p3.Y-p1.Y) - (p2.Y-p1.Y)*(p3.X-p1.X)
	tol := Epsilon * p1.Distance(p2) * p1.Distance(p3)
	switch {
	case cross > tol:
		return 1
	case cross < -tol:
		return -1
	default:
		return 0
	}
}

// onSegment checks if point q lies within the bounding box of segment pr.
// Only meaningful when q is already known to be collinear with p and r.
func onSegment(p, r, q Point) bool {
	tol := Epsilon * (1 + math.Max(math.Abs(q.X), math.Abs(q.Y)))
	return q.X <= math.Max(p.X, r.X)+tol && q.X >= math.Min(p.X, r.X)-tol &&
		q.Y <= math.Max(p.Y, r.Y)+tol && q.Y >= math.Min(p.Y, r.Y)-tol
}

// HasClearLineOfSight checks if the straight segment between a and b
// crosses none of the walls.
func HasClearLineOfSight(a, b Point, walls []LineSegment) bool {
	segment := LineSegment{P1: a, P2: b}
	for _, wall := range walls {
		if DoSegmentsIntersect(segment, wall) {
			return false
		}
	}
	return true
}

// normalizeBearing wraps an angle in degrees into (-180, 180].
func normalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg <= -180 {
		deg += 360
	} else if deg > 180 {
		deg -= 360
	}
	return deg
}
