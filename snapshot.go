package main

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInvalidDestination is returned when a goal name is not a destination of the floor.
	ErrInvalidDestination = errors.New("invalid destination")
	// ErrNoPath is returned when start and goal are not connected.
	ErrNoPath = errors.New("no path found")
	// ErrDegenerateSegment marks a zero-length hop; such hops are skipped.
	ErrDegenerateSegment = errors.New("degenerate segment")
	// ErrMalformedGeometry is returned when map coordinates fail sanity checks.
	ErrMalformedGeometry = errors.New("malformed geometry")
	// ErrInvalidScale is returned for a non-positive or non-finite map scale.
	ErrInvalidScale = errors.New("invalid scale")
)

// Pose is a position on the map plus the direction the user is facing,
// in degrees, using the same convention as Point.BearingTo.
type Pose struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// Point returns the position part of the pose.
func (p Pose) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

func (p Pose) isFinite() bool {
	return p.Point().isFinite() && !math.IsNaN(p.Heading) && !math.IsInf(p.Heading, 0)
}

// Destination is a named place on a floor. Orientation is the direction one
// faces while standing at Point and is only used for the final remark.
type Destination struct {
	Name           string
	Point          Point
	Orientation    float64
	HasOrientation bool
}

// MapSnapshot is the immutable geometry of one floor. It is safe for
// concurrent use by any number of planning requests.
type MapSnapshot struct {
	floor        string
	walls        []LineSegment
	waypoints    []Point
	destinations map[string]Destination
	index        *WallIndex
}

// NewMapSnapshot validates and copies the given floor data.
func NewMapSnapshot(floor string, walls []LineSegment, waypoints []Point, destinations []Destination) (*MapSnapshot, error) {
	s := &MapSnapshot{
		floor:        floor,
		walls:        make([]LineSegment, len(walls)),
		waypoints:    make([]Point, len(waypoints)),
		destinations: make(map[string]Destination, len(destinations)),
	}

	for i, wall := range walls {
		if !wall.P1.isFinite() || !wall.P2.isFinite() {
			return nil, fmt.Errorf("wall %d: %w", i, ErrMalformedGeometry)
		}
		s.walls[i] = wall
	}
	for i, wp := range waypoints {
		if !wp.isFinite() {
			return nil, fmt.Errorf("waypoint %d: %w", i, ErrMalformedGeometry)
		}
		s.waypoints[i] = wp
	}
	for _, dest := range destinations {
		if dest.Name == "" {
			return nil, fmt.Errorf("destination without name: %w", ErrMalformedGeometry)
		}
		if !dest.Point.isFinite() || math.IsNaN(dest.Orientation) || math.IsInf(dest.Orientation, 0) {
			return nil, fmt.Errorf("destination %q: %w", dest.Name, ErrMalformedGeometry)
		}
		if _, dup := s.destinations[dest.Name]; dup {
			return nil, fmt.Errorf("duplicate destination %q: %w", dest.Name, ErrMalformedGeometry)
		}
		s.destinations[dest.Name] = dest
	}

	s.index = NewWallIndex(s.walls)
	return s, nil
}

// Floor returns the floor name the snapshot was built for.
func (s *MapSnapshot) Floor() string { return s.floor }

// Walls returns a copy of the wall segments.
func (s *MapSnapshot) Walls() []LineSegment {
	return append([]LineSegment(nil), s.walls...)
}

// Waypoints returns a copy of the waypoints.
func (s *MapSnapshot) Waypoints() []Point {
	return append([]Point(nil), s.waypoints...)
}

// Destination looks up a destination by name.
func (s *MapSnapshot) Destination(name string) (Destination, bool) {
	d, ok := s.destinations[name]
	return d, ok
}

// DestinationNames returns the destination names in sorted order.
func (s *MapSnapshot) DestinationNames() []string {
	names := make([]string, 0, len(s.destinations))
	for name := range s.destinations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasClearLineOfSight checks a and b against the snapshot's walls using the
// spatial index.
func (s *MapSnapshot) HasClearLineOfSight(a, b Point) bool {
	return HasClearLineOfSight(a, b, s.index.Candidates(a, b))
}
