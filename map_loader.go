package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// ErrUnknownFloor is returned when no map file exists for a floor.
var ErrUnknownFloor = errors.New("unknown floor")

const (
	mapsDir          = "maps"
	destinationsFile = "destinations.json"
)

// FloorMapJSON is the map file written by the authoring tool
type FloorMapJSON struct {
	Walls     []WallJSON  `json:"walls"`
	Waypoints []PointJSON `json:"waypoints"`
}

// PointJSON is an [x, y] coordinate pair
type PointJSON [2]float64

// UnmarshalJSON implements json.Unmarshaler
func (p *PointJSON) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return fmt.Errorf("point has %d values, want 2: %w", len(coords), ErrMalformedGeometry)
	}
	*p = PointJSON{coords[0], coords[1]}
	return nil
}

// WallJSON accepts both {"start": [x,y], "end": [x,y]} and [[x,y],[x,y]]
type WallJSON struct {
	Start PointJSON `json:"start"`
	End   PointJSON `json:"end"`
}

// UnmarshalJSON implements json.Unmarshaler
func (w *WallJSON) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pair []PointJSON
		if err := json.Unmarshal(trimmed, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("wall has %d points, want 2: %w", len(pair), ErrMalformedGeometry)
		}
		w.Start, w.End = pair[0], pair[1]
		return nil
	}

	var obj struct {
		Start *PointJSON `json:"start"`
		End   *PointJSON `json:"end"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	if obj.Start == nil || obj.End == nil {
		return fmt.Errorf("wall needs both start and end: %w", ErrMalformedGeometry)
	}
	w.Start, w.End = *obj.Start, *obj.End
	return nil
}

// DestinationJSON is [x, y] or [x, y, orientation_degrees]
type DestinationJSON []float64

// DestinationsFileJSON maps floor name to destination name to coordinates
type DestinationsFileJSON map[string]map[string]DestinationJSON

func (p PointJSON) point() Point { return Point{X: p[0], Y: p[1]} }

// ParseFloorMap converts map file bytes and the floor's destinations into a
// snapshot.
func ParseFloorMap(floor string, data []byte, destinations map[string]DestinationJSON) (*MapSnapshot, error) {
	var floorMap FloorMapJSON
	if err := json.Unmarshal(data, &floorMap); err != nil {
		return nil, fmt.Errorf("failed to parse map %q: %w", floor, err)
	}

	walls := make([]LineSegment, len(floorMap.Walls))
	for i, w := range floorMap.Walls {
		walls[i] = LineSegment{P1: w.Start.point(), P2: w.End.point()}
	}
	waypoints := make([]Point, len(floorMap.Waypoints))
	for i, wp := range floorMap.Waypoints {
		waypoints[i] = wp.point()
	}

	dests, err := convertDestinations(destinations)
	if err != nil {
		return nil, fmt.Errorf("floor %q: %w", floor, err)
	}

	return NewMapSnapshot(floor, walls, waypoints, dests)
}

func convertDestinations(raw map[string]DestinationJSON) ([]Destination, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	dests := make([]Destination, 0, len(raw))
	for _, name := range names {
		coords := raw[name]
		switch len(coords) {
		case 2:
			dests = append(dests, Destination{Name: name, Point: Point{X: coords[0], Y: coords[1]}})
		case 3:
			dests = append(dests, Destination{
				Name:           name,
				Point:          Point{X: coords[0], Y: coords[1]},
				Orientation:    coords[2],
				HasOrientation: true,
			})
		default:
			return nil, fmt.Errorf("destination %q has %d values: %w", name, len(coords), ErrMalformedGeometry)
		}
	}
	return dests, nil
}

// LoadFloorMap loads a floor from dataDir. maps/<floor>.json is read together
// with the floor's entry in destinations.json; maps/<floor>.geojson is used
// when no JSON map exists and carries its own destinations.
func LoadFloorMap(dataDir, floor string) (*MapSnapshot, error) {
	if floor == "" || floor != filepath.Base(floor) {
		return nil, fmt.Errorf("%q: %w", floor, ErrUnknownFloor)
	}

	jsonPath := filepath.Join(dataDir, mapsDir, floor+".json")
	data, err := os.ReadFile(jsonPath)
	if err == nil {
		dests, err := loadDestinations(dataDir, floor)
		if err != nil {
			return nil, err
		}
		snapshot, err := ParseFloorMap(floor, data, dests)
		if err != nil {
			return nil, err
		}
		log.Printf("   ✅ Loaded map from %s\n", jsonPath)
		return snapshot, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	geoPath := filepath.Join(dataDir, mapsDir, floor+".geojson")
	data, err = os.ReadFile(geoPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%q: %w", floor, ErrUnknownFloor)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	walls, waypoints, dests, err := ParseGeoJSONMap(data)
	if err != nil {
		return nil, fmt.Errorf("floor %q: %w", floor, err)
	}
	snapshot, err := NewMapSnapshot(floor, walls, waypoints, dests)
	if err != nil {
		return nil, err
	}
	log.Printf("   ✅ Loaded map from %s\n", geoPath)
	return snapshot, nil
}

// loadDestinations returns the floor's destinations. A missing destinations
// file means the floor has none.
func loadDestinations(dataDir, floor string) (map[string]DestinationJSON, error) {
	path := filepath.Join(dataDir, destinationsFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("   ⚠️  Destinations file %s not found\n", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var all DestinationsFileJSON
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return all[floor], nil
}

// ListFloors returns the floor names that have a map file in dataDir.
func ListFloors(dataDir string) ([]string, error) {
	seen := make(map[string]bool)
	for _, pattern := range []string{"*.json", "*.geojson"} {
		files, err := filepath.Glob(filepath.Join(dataDir, mapsDir, pattern))
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			base := filepath.Base(file)
			seen[base[:len(base)-len(filepath.Ext(base))]] = true
		}
	}

	floors := make([]string, 0, len(seen))
	for floor := range seen {
		floors = append(floors, floor)
	}
	sort.Strings(floors)
	return floors, nil
}
