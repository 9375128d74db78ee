package main

import (
	"fmt"
	"log"
)

// Goal is either a named destination or a literal map coordinate.
type Goal struct {
	Name  string
	Point *Point
}

// GoalNamed returns a goal resolved against the snapshot's destinations.
func GoalNamed(name string) Goal { return Goal{Name: name} }

// GoalAt returns a goal at a literal coordinate.
func GoalAt(p Point) Goal { return Goal{Point: &p} }

func (g Goal) String() string {
	if g.Point != nil {
		return fmt.Sprintf("(%.1f, %.1f)", g.Point.X, g.Point.Y)
	}
	return fmt.Sprintf("%q", g.Name)
}

// resolve returns the goal coordinate and, for named goals, the destination.
func (g Goal) resolve(snapshot *MapSnapshot) (Point, *Destination, error) {
	if g.Point != nil {
		if !g.Point.isFinite() {
			return Point{}, nil, fmt.Errorf("goal %s: %w", g, ErrMalformedGeometry)
		}
		return *g.Point, nil, nil
	}
	dest, ok := snapshot.Destination(g.Name)
	if !ok {
		return Point{}, nil, fmt.Errorf("%q on floor %q: %w", g.Name, snapshot.Floor(), ErrInvalidDestination)
	}
	return dest.Point, &dest, nil
}

// FindOptimalPath plans the shortest wall-free path from start to goal over
// the snapshot's visibility graph. The returned path begins at start, ends at
// the goal point and otherwise only contains waypoints.
func FindOptimalPath(snapshot *MapSnapshot, start Point, goal Goal) ([]Point, error) {
	if !start.isFinite() {
		return nil, fmt.Errorf("start: %w", ErrMalformedGeometry)
	}
	end, _, err := goal.resolve(snapshot)
	if err != nil {
		return nil, err
	}
	return findPath(snapshot, start, end)
}

func findPath(snapshot *MapSnapshot, start, end Point) ([]Point, error) {
	log.Printf("🔗 Building visibility graph for floor %q...\n", snapshot.Floor())
	graph, startIdx, endIdx := BuildVisibilityGraph(start, end, snapshot.waypoints, snapshot)

	log.Println("🔍 Running A* on visibility graph...")
	path, err := AStarPathOnGraph(graph, startIdx, endIdx)
	if err != nil {
		log.Println("❌ No path found on visibility graph")
		return nil, err
	}
	log.Printf("✅ Path found with %d waypoints\n", len(path))
	return path, nil
}

// Route is a planned path together with its spoken directions.
type Route struct {
	Path         []Point
	Directions   []string
	Length       float64 // map units
	LengthMeters float64
}

// Navigate plans a path from the pose to the goal and narrates it. When the
// goal is a named destination with an orientation, the last instruction says
// where the destination lies.
func Navigate(snapshot *MapSnapshot, pose Pose, goal Goal, scale float64) (*Route, error) {
	if err := validateScale(scale); err != nil {
		return nil, err
	}
	if !pose.isFinite() {
		return nil, fmt.Errorf("pose: %w", ErrMalformedGeometry)
	}
	start := pose.Point()
	end, dest, err := goal.resolve(snapshot)
	if err != nil {
		return nil, err
	}

	path, err := findPath(snapshot, start, end)
	if err != nil {
		return nil, fmt.Errorf("to %s: %w", goal, err)
	}

	var facing *float64
	if dest != nil && dest.HasOrientation {
		o := dest.Orientation
		facing = &o
	}
	directions, err := GenerateDirections(pose, path, scale, facing)
	if err != nil {
		return nil, err
	}

	length := PathLength(path)
	return &Route{
		Path:         path,
		Directions:   directions,
		Length:       length,
		LengthMeters: length * scale,
	}, nil
}
