package telemetry

import (
	"math"
	"testing"
)

func TestComputeWindowStats(t *testing.T) {
	distances := []float64{100, 200, 300, 400}
	speeds := []float64{3.0, 3.5}

	stats := ComputeWindowStats(42, 10.5, distances, speeds, 4)

	if stats.Tick != 42 || stats.SimTimeSec != 10.5 || stats.Active != 4 {
		t.Errorf("header fields = %+v", stats)
	}
	if math.Abs(stats.DistanceMean-250) > 1e-9 {
		t.Errorf("distance mean = %v, want 250", stats.DistanceMean)
	}
	if math.Abs(stats.Spread-300) > 1e-9 {
		t.Errorf("spread = %v, want 300", stats.Spread)
	}
	if math.Abs(stats.SpeedMean-3.25) > 1e-9 {
		t.Errorf("speed mean = %v, want 3.25", stats.SpeedMean)
	}
	if stats.DistanceP50 < 200 || stats.DistanceP50 > 300 {
		t.Errorf("distance p50 = %v, want within the middle pair", stats.DistanceP50)
	}
}

func TestComputeWindowStatsEmpty(t *testing.T) {
	stats := ComputeWindowStats(0, 0, nil, nil, 0)

	if stats.DistanceMean != 0 || stats.Spread != 0 || stats.SpeedMean != 0 {
		t.Errorf("empty sample produced non-zero stats: %+v", stats)
	}
}

func TestComputeWindowStatsSingleHorse(t *testing.T) {
	stats := ComputeWindowStats(1, 1, []float64{500}, []float64{2.5}, 1)

	if stats.DistanceMean != 500 || stats.Spread != 0 {
		t.Errorf("single-horse stats = %+v", stats)
	}
	if stats.DistanceStd != 0 || stats.SpeedStd != 0 {
		t.Errorf("single-horse std should be zero: %+v", stats)
	}
}
