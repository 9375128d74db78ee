package main

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
)

// ClockBin maps a relative bearing in degrees (0 straight ahead, positive to
// the right) onto a clock face position 1..12, each 30° wide and centred on
// its hour.
func ClockBin(relative float64) int {
	deg := math.Mod(relative, 360)
	if deg < 0 {
		deg += 360
	}
	bin := int(math.Floor((deg+15)/30)) % 12
	if bin == 0 {
		return 12
	}
	return bin
}

// Phrase renders a turn instruction for a clock position and a distance in
// meters.
func Phrase(clock int, meters float64) string {
	d := formatMeters(meters)
	switch clock {
	case 12:
		return fmt.Sprintf("Go straight and walk %s meters.", d)
	case 1, 11:
		return fmt.Sprintf("Go straight and walk %s meters along %d o'clock.", d, clock)
	case 2, 4:
		return fmt.Sprintf("Turn right to %d o'clock and walk %s meters.", clock, d)
	case 3:
		return fmt.Sprintf("Turn right and walk %s meters.", d)
	case 5, 7:
		return fmt.Sprintf("Turn around to %d o'clock and walk %s meters.", clock, d)
	case 6:
		return fmt.Sprintf("Turn around and walk %s meters.", d)
	case 8, 10:
		return fmt.Sprintf("Turn left to %d o'clock and walk %s meters.", clock, d)
	case 9:
		return fmt.Sprintf("Turn left and walk %s meters.", d)
	default:
		return fmt.Sprintf("Walk %s meters.", d)
	}
}

// RelativePosition describes where something at the given clock position is,
// as seen by the user.
func RelativePosition(clock int) string {
	switch {
	case clock == 12:
		return "straight ahead at 12 o'clock"
	case clock == 6:
		return "behind you at 6 o'clock"
	case clock >= 1 && clock <= 5:
		return fmt.Sprintf("on your right at %d o'clock", clock)
	default:
		return fmt.Sprintf("on your left at %d o'clock", clock)
	}
}

// formatMeters rounds to one decimal place.
func formatMeters(meters float64) string {
	return strconv.FormatFloat(math.Round(meters*10)/10, 'f', 1, 64)
}

func validateScale(scale float64) error {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return fmt.Errorf("%v: %w", scale, ErrInvalidScale)
	}
	return nil
}

// GenerateDirections turns a path into heading-relative instructions for a
// user standing at pose. scale converts map units to meters.
//
// After each hop the user is taken to face the direction just walked, so the
// next turn is relative to that hop's bearing. Zero-length hops are skipped.
// If destinationFacing is set, the last instruction also says where the
// destination lies relative to the final heading.
func GenerateDirections(pose Pose, path []Point, scale float64, destinationFacing *float64) ([]string, error) {
	if err := validateScale(scale); err != nil {
		return nil, err
	}
	if !pose.isFinite() {
		return nil, fmt.Errorf("pose: %w", ErrMalformedGeometry)
	}
	for i, p := range path {
		if !p.isFinite() {
			return nil, fmt.Errorf("path point %d: %w", i, ErrMalformedGeometry)
		}
	}
	if destinationFacing != nil && (math.IsNaN(*destinationFacing) || math.IsInf(*destinationFacing, 0)) {
		return nil, fmt.Errorf("destination facing: %w", ErrMalformedGeometry)
	}

	var directions []string
	current := pose.Point()
	heading := pose.Heading

	for i := 1; i < len(path); i++ {
		next := path[i]
		length := current.Distance(next)
		if length <= Epsilon {
			log.Printf("   ⚠️  Skipping hop %d: %v\n", i, ErrDegenerateSegment)
			current = next
			continue
		}

		bearing := current.BearingTo(next)
		relative := normalizeBearing(bearing - heading)
		step := Phrase(ClockBin(relative), length*scale)
		if len(directions) > 0 {
			// "Then turn left ...", not "Then Turn left ..."
			step = "Then " + lowerFirst(step)
		}
		directions = append(directions, step)

		heading = bearing
		current = next
	}

	if destinationFacing != nil && len(directions) > 0 {
		relative := normalizeBearing(*destinationFacing - heading)
		last := len(directions) - 1
		directions[last] = strings.TrimSuffix(directions[last], ".") +
			", and the destination will be " + RelativePosition(ClockBin(relative)) + "."
	}

	return directions, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
