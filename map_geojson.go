package main

import (
	"fmt"
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// GeoJSON feature kinds understood by ParseGeoJSONMap.
const (
	kindWaypoint    = "waypoint"
	kindDestination = "destination"
)

func toOrb(p Point) orb.Point { return orb.Point{p.X, p.Y} }

func fromOrb(p orb.Point) Point { return Point{X: p[0], Y: p[1]} }

func toLineString(path []Point) orb.LineString {
	ls := make(orb.LineString, len(path))
	for i, p := range path {
		ls[i] = toOrb(p)
	}
	return ls
}

// PathLength sums the segment lengths of a path in map units.
func PathLength(path []Point) float64 {
	if len(path) < 2 {
		return 0
	}
	return planar.Length(toLineString(path))
}

// PathFeature returns the path as a GeoJSON LineString feature.
func PathFeature(path []Point, scale float64) *geojson.Feature {
	f := geojson.NewFeature(toLineString(path))
	f.Properties["length"] = PathLength(path)
	f.Properties["lengthMeters"] = PathLength(path) * scale
	return f
}

// GraphFeatureCollection returns each edge of the graph as a LineString
// feature, and each node as a Point feature.
func GraphFeatureCollection(graph *Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, p := range graph.Nodes {
		f := geojson.NewFeature(toOrb(p))
		f.Properties["id"] = i
		f.Properties["degree"] = len(graph.Edges[i])
		fc.Append(f)
	}
	for _, line := range graph.Lines() {
		f := geojson.NewFeature(toLineString(line))
		f.Properties["cost"] = line[0].Distance(line[1])
		fc.Append(f)
	}
	return fc
}

// ParseGeoJSONMap converts a GeoJSON floor description into snapshot inputs.
// LineString, MultiLineString and Polygon geometries become walls; Point
// features become waypoints or destinations depending on their "kind".
func ParseGeoJSONMap(data []byte) ([]LineSegment, []Point, []Destination, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	var walls []LineSegment
	var waypoints []Point
	var destinations []Destination

	for i, feature := range fc.Features {
		switch geom := feature.Geometry.(type) {
		case orb.LineString:
			walls = append(walls, lineStringWalls(geom)...)
		case orb.MultiLineString:
			for _, ls := range geom {
				walls = append(walls, lineStringWalls(ls)...)
			}
		case orb.Polygon:
			for _, ring := range geom {
				walls = append(walls, lineStringWalls(orb.LineString(ring))...)
			}
		case orb.Point:
			kind, _ := feature.Properties["kind"].(string)
			switch kind {
			case kindDestination:
				dest, err := geoJSONDestination(geom, feature.Properties)
				if err != nil {
					return nil, nil, nil, fmt.Errorf("feature %d: %w", i, err)
				}
				destinations = append(destinations, dest)
			case kindWaypoint, "":
				waypoints = append(waypoints, fromOrb(geom))
			default:
				log.Printf("⚠️  Ignoring point feature %d of unknown kind %q\n", i, kind)
			}
		default:
			log.Printf("⚠️  Ignoring feature %d with geometry %T\n", i, geom)
		}
	}

	return walls, waypoints, destinations, nil
}

func lineStringWalls(ls orb.LineString) []LineSegment {
	walls := make([]LineSegment, 0, len(ls))
	for i := 1; i < len(ls); i++ {
		walls = append(walls, LineSegment{P1: fromOrb(ls[i-1]), P2: fromOrb(ls[i])})
	}
	return walls
}

func geoJSONDestination(p orb.Point, props geojson.Properties) (Destination, error) {
	name, _ := props["name"].(string)
	if name == "" {
		return Destination{}, fmt.Errorf("destination without name: %w", ErrMalformedGeometry)
	}
	dest := Destination{Name: name, Point: fromOrb(p)}
	if o, ok := props["orientation"].(float64); ok {
		dest.Orientation = o
		dest.HasOrientation = true
	}
	return dest, nil
}
