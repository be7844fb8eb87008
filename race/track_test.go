package race

import (
	"math"
	"testing"

	"github.com/pthm-cable/derby/config"
)

func TestPositionStartLine(t *testing.T) {
	p := Position(0, 0)
	if p.X != 0 || p.Y != 0 || p.Heading != 0 {
		t.Errorf("start line = %+v, want origin heading east", p)
	}
}

func TestPositionWrapsLapDistance(t *testing.T) {
	length := config.Cfg().Track.Length

	a := Position(120, 0)
	b := Position(120+length, 0)
	c := Position(120+3*length, 0)

	if math.Abs(a.X-b.X) > 1e-9 || math.Abs(a.Y-b.Y) > 1e-9 {
		t.Errorf("lap wrap mismatch: %+v vs %+v", a, b)
	}
	if math.Abs(a.X-c.X) > 1e-9 || math.Abs(a.Y-c.Y) > 1e-9 {
		t.Errorf("multi-lap wrap mismatch: %+v vs %+v", a, c)
	}
}

func TestPositionLaneOffsetOnStraights(t *testing.T) {
	spacing := config.Cfg().Track.LaneSpacing

	inner := Position(100, 0)
	outer := Position(100, 2)

	// Outer lanes sit below the home straight (outward side).
	if got := inner.Y - outer.Y; math.Abs(got-2*spacing) > 1e-9 {
		t.Errorf("home straight lane offset = %v, want %v", got, 2*spacing)
	}
	if outer.X != inner.X {
		t.Errorf("lane offset shifted along-track position: %v vs %v", outer.X, inner.X)
	}
}

func TestPositionContinuousAtSegmentJoins(t *testing.T) {
	length := config.Cfg().Track.Length
	straight := length * straightFraction
	turn := length * (1 - 2*straightFraction) / 2

	joins := []float64{straight, straight + turn, 2*straight + turn}
	for _, s := range joins {
		before := Position(s-0.01, 1)
		after := Position(s+0.01, 1)
		dx := after.X - before.X
		dy := after.Y - before.Y
		if math.Hypot(dx, dy) > 1.0 {
			t.Errorf("discontinuity at s=%v: %+v -> %+v", s, before, after)
		}
	}

	// Closing the lap returns to the start of the lane path.
	end := Position(length-0.01, 1)
	start := Position(0.01, 1)
	if math.Hypot(end.X-start.X, end.Y-start.Y) > 1.0 {
		t.Errorf("lap does not close: %+v vs %+v", end, start)
	}
}

func TestPositionHeadingSweepsFullCircle(t *testing.T) {
	length := config.Cfg().Track.Length

	// Back straight runs opposite the home straight.
	back := Position(length*0.5, 0)
	if math.Abs(back.Heading-math.Pi) > 0.2 {
		t.Errorf("back straight heading = %v, want ~pi", back.Heading)
	}

	// Just before the line the heading has almost come full circle.
	closing := Position(length*0.999, 0)
	if closing.Heading < 1.8*math.Pi {
		t.Errorf("closing heading = %v, want near 2pi", closing.Heading)
	}
}
