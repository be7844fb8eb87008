package race

import (
	"math"

	"github.com/pthm-cable/derby/config"
)

// TrackPoint is a position on the track with the direction of travel.
type TrackPoint struct {
	X, Y    float64
	Heading float64 // radians, 0 = along the home straight
}

// Oval track layout: two straights joined by two 180-degree turns,
// run counterclockwise from the start line at the beginning of the
// home straight. The straights take straightFraction of the lap each.
const straightFraction = 0.35

// Position returns the track point for a lap-relative distance and a lane
// offset. Lane 0 runs the centerline of the innermost path; higher lanes
// are pushed outward by the configured spacing. Distances outside [0, L)
// wrap, so callers can pass cumulative distance directly.
func Position(lapDistance float64, lane int) TrackPoint {
	track := &config.Cfg().Track
	length := track.Length
	offset := float64(lane) * track.LaneSpacing

	s := math.Mod(lapDistance, length)
	if s < 0 {
		s += length
	}

	straight := length * straightFraction
	turn := length * (1 - 2*straightFraction) / 2
	radius := turn / math.Pi

	switch {
	case s < straight:
		// Home straight, heading east along the bottom.
		return TrackPoint{X: s, Y: -offset, Heading: 0}

	case s < straight+turn:
		// First turn, sweeping counterclockwise around (straight, radius).
		theta := (s - straight) / turn * math.Pi // 0..pi
		r := radius + offset
		return TrackPoint{
			X:       straight + r*math.Sin(theta),
			Y:       radius - r*math.Cos(theta),
			Heading: theta,
		}

	case s < 2*straight+turn:
		// Back straight, heading west along the top.
		d := s - straight - turn
		return TrackPoint{X: straight - d, Y: 2*radius + offset, Heading: math.Pi}

	default:
		// Final turn back to the start line.
		theta := (s - 2*straight - turn) / turn * math.Pi // 0..pi
		r := radius + offset
		return TrackPoint{
			X:       -r * math.Sin(theta),
			Y:       radius + r*math.Cos(theta),
			Heading: math.Pi + theta,
		}
	}
}
