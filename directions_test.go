package main

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestClockBin(t *testing.T) {
	tests := []struct {
		bearing float64
		want    int
	}{
		{0, 12},
		{14.9, 12},
		{-14.9, 12},
		{15, 1},
		{30, 1},
		{60, 2},
		{90, 3},
		{120, 4},
		{150, 5},
		{180, 6},
		{-180, 6},
		{-150, 7},
		{-120, 8},
		{-90, 9},
		{-60, 10},
		{-30, 11},
		{-15.1, 11},
		{345, 12},
		{359.9, 12},
	}

	for _, tt := range tests {
		if got := ClockBin(tt.bearing); got != tt.want {
			t.Errorf("ClockBin(%v) = %d, want %d", tt.bearing, got, tt.want)
		}
	}
}

func TestPhrase(t *testing.T) {
	tests := []struct {
		clock  int
		meters float64
		want   string
	}{
		{12, 11.82, "Go straight and walk 11.8 meters."},
		{1, 3, "Go straight and walk 3.0 meters along 1 o'clock."},
		{11, 3, "Go straight and walk 3.0 meters along 11 o'clock."},
		{2, 4.25, "Turn right to 2 o'clock and walk 4.3 meters."},
		{4, 1, "Turn right to 4 o'clock and walk 1.0 meters."},
		{3, 2.04, "Turn right and walk 2.0 meters."},
		{5, 2, "Turn around to 5 o'clock and walk 2.0 meters."},
		{7, 2, "Turn around to 7 o'clock and walk 2.0 meters."},
		{6, 0.96, "Turn around and walk 1.0 meters."},
		{8, 2, "Turn left to 8 o'clock and walk 2.0 meters."},
		{10, 2, "Turn left to 10 o'clock and walk 2.0 meters."},
		{9, 30.906, "Turn left and walk 30.9 meters."},
	}

	for _, tt := range tests {
		if got := Phrase(tt.clock, tt.meters); got != tt.want {
			t.Errorf("Phrase(%d, %v) = %q, want %q", tt.clock, tt.meters, got, tt.want)
		}
	}
}

func TestRelativePosition(t *testing.T) {
	tests := []struct {
		clock int
		want  string
	}{
		{12, "straight ahead at 12 o'clock"},
		{3, "on your right at 3 o'clock"},
		{6, "behind you at 6 o'clock"},
		{8, "on your left at 8 o'clock"},
	}
	for _, tt := range tests {
		if got := RelativePosition(tt.clock); got != tt.want {
			t.Errorf("RelativePosition(%d) = %q, want %q", tt.clock, got, tt.want)
		}
	}
}

func TestGenerateDirectionsScenario(t *testing.T) {
	path := []Point{{547, 381}, {540, 263}, {538, 203}, {229, 209}}
	pose := Pose{X: 547, Y: 381, Heading: -90}
	facing := 90.0

	got, err := GenerateDirections(pose, path, 0.1, &facing)
	if err != nil {
		t.Fatalf("GenerateDirections() error = %v", err)
	}

	want := []string{
		"Go straight and walk 11.8 meters.",
		"Then go straight and walk 6.0 meters.",
		"Then turn left and walk 30.9 meters, and the destination will be on your left at 9 o'clock.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GenerateDirections() =\n%q\nwant\n%q", got, want)
	}

	if strings.HasPrefix(got[0], "Then ") {
		t.Errorf("first instruction %q must not be prefixed", got[0])
	}
	for i := 1; i < len(got); i++ {
		if !strings.HasPrefix(got[i], "Then ") {
			t.Errorf("instruction %d %q must start with \"Then \"", i, got[i])
		}
	}
	for i := 1; i < len(path); i++ {
		d := math.Round(path[i-1].Distance(path[i])*0.1*10) / 10
		if !strings.Contains(got[i-1], formatMeters(d)+" meters") {
			t.Errorf("instruction %q does not contain distance %v", got[i-1], d)
		}
	}
}

func TestGenerateDirectionsHeadingPropagation(t *testing.T) {
	// First hop goes east while the user faces north (-90 in image
	// coordinates); the second hop also goes east. Relative to the original
	// heading the second hop would be a right turn; relative to the first
	// hop's bearing it is straight ahead.
	pose := Pose{X: 0, Y: 0, Heading: -90}
	path := []Point{{0, 0}, {10, 0}, {20, 0}}

	got, err := GenerateDirections(pose, path, 1, nil)
	if err != nil {
		t.Fatalf("GenerateDirections() error = %v", err)
	}
	want := []string{
		"Turn right and walk 10.0 meters.",
		"Then go straight and walk 10.0 meters.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GenerateDirections() = %q, want %q", got, want)
	}
}

func TestGenerateDirectionsSkipsDegenerateHops(t *testing.T) {
	pose := Pose{X: 0, Y: 0, Heading: 0}
	path := []Point{{0, 0}, {0, 0}, {10, 0}, {10, 0}, {10, 10}}

	got, err := GenerateDirections(pose, path, 1, nil)
	if err != nil {
		t.Fatalf("GenerateDirections() error = %v", err)
	}
	want := []string{
		"Go straight and walk 10.0 meters.",
		"Then turn right and walk 10.0 meters.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GenerateDirections() = %q, want %q", got, want)
	}
}

func TestGenerateDirectionsEdgeCases(t *testing.T) {
	facing := 0.0

	got, err := GenerateDirections(Pose{}, []Point{{0, 0}}, 1, &facing)
	if err != nil || len(got) != 0 {
		t.Errorf("single point path = %q, %v, want no instructions", got, err)
	}

	got, err = GenerateDirections(Pose{}, nil, 1, nil)
	if err != nil || len(got) != 0 {
		t.Errorf("empty path = %q, %v, want no instructions", got, err)
	}

	for _, scale := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := GenerateDirections(Pose{}, []Point{{0, 0}, {1, 0}}, scale, nil); !errors.Is(err, ErrInvalidScale) {
			t.Errorf("scale %v: err = %v, want ErrInvalidScale", scale, err)
		}
	}

	nan, inf := math.NaN(), math.Inf(1)
	malformed := []struct {
		name   string
		pose   Pose
		path   []Point
		facing *float64
	}{
		{"NaN heading", Pose{Heading: nan}, []Point{{0, 0}, {10, 0}}, nil},
		{"infinite heading", Pose{Heading: -inf}, []Point{{0, 0}, {10, 0}}, nil},
		{"infinite position", Pose{X: inf}, []Point{{0, 0}, {10, 0}}, nil},
		{"NaN path point", Pose{}, []Point{{0, 0}, {nan, 5}}, nil},
		{"infinite path point", Pose{}, []Point{{0, 0}, {10, 0}, {10, inf}}, nil},
		{"NaN facing", Pose{}, []Point{{0, 0}, {10, 0}}, &nan},
	}
	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateDirections(tt.pose, tt.path, 1, tt.facing)
			if !errors.Is(err, ErrMalformedGeometry) {
				t.Errorf("err = %v, want ErrMalformedGeometry", err)
			}
			if got != nil {
				t.Errorf("directions = %q, want none", got)
			}
		})
	}
}

func TestGenerateDirectionsDeterministic(t *testing.T) {
	path := []Point{{547, 381}, {540, 263}, {538, 203}, {229, 209}}
	pose := Pose{X: 547, Y: 381, Heading: -90}

	first, _ := GenerateDirections(pose, path, 0.1, nil)
	for i := 0; i < 10; i++ {
		got, _ := GenerateDirections(pose, path, 0.1, nil)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d = %q, first run = %q", i, got, first)
		}
	}
}
