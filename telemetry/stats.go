package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated field statistics for one stats window.
type WindowStats struct {
	Tick       int     `csv:"tick"`
	SimTimeSec float64 `csv:"sim_time"`
	Active     int     `csv:"active"`

	// Field spread (distance, track units)
	DistanceMean float64 `csv:"distance_mean"`
	DistanceStd  float64 `csv:"distance_std"`
	DistanceP10  float64 `csv:"distance_p10"`
	DistanceP50  float64 `csv:"distance_p50"`
	DistanceP90  float64 `csv:"distance_p90"`
	Spread       float64 `csv:"spread"` // leader minus last place

	// Speed distribution
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`

	// Events fired during the window
	Bursts    int `csv:"bursts"`
	Slowdowns int `csv:"slowdowns"`
	Shifts    int `csv:"shifts"`
	Comebacks int `csv:"comebacks"`
	Fatigues  int `csv:"fatigues"`
	Finishes  int `csv:"finishes"`
}

// ComputeWindowStats builds the distribution part of a WindowStats from a
// field sample. Event counters are filled in by Collector.FlushWindow.
func ComputeWindowStats(tick int, simTimeSec float64, distances, speeds []float64, active int) WindowStats {
	stats := WindowStats{
		Tick:       tick,
		SimTimeSec: simTimeSec,
		Active:     active,
	}

	if len(distances) > 0 {
		sorted := make([]float64, len(distances))
		copy(sorted, distances)
		sort.Float64s(sorted)

		stats.DistanceMean = stat.Mean(sorted, nil)
		if len(sorted) > 1 {
			stats.DistanceStd = stat.StdDev(sorted, nil)
		}
		stats.DistanceP10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
		stats.DistanceP50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
		stats.DistanceP90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
		stats.Spread = sorted[len(sorted)-1] - sorted[0]
	}

	if len(speeds) > 0 {
		stats.SpeedMean = stat.Mean(speeds, nil)
		if len(speeds) > 1 {
			stats.SpeedStd = stat.StdDev(speeds, nil)
		}
	}

	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", s.Tick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("active", s.Active),
		slog.Float64("distance_mean", s.DistanceMean),
		slog.Float64("distance_std", s.DistanceStd),
		slog.Float64("distance_p10", s.DistanceP10),
		slog.Float64("distance_p50", s.DistanceP50),
		slog.Float64("distance_p90", s.DistanceP90),
		slog.Float64("spread", s.Spread),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Int("bursts", s.Bursts),
		slog.Int("slowdowns", s.Slowdowns),
		slog.Int("shifts", s.Shifts),
		slog.Int("comebacks", s.Comebacks),
		slog.Int("fatigues", s.Fatigues),
		slog.Int("finishes", s.Finishes),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
