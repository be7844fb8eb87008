package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/derby/config"
	"github.com/pthm-cable/derby/race"
	"github.com/pthm-cable/derby/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	horses := flag.Int("horses", 0, "Field size (0 = use config)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxTicks := flag.Int("max-ticks", 200000, "Abort if the race has not finished after N ticks")
	quiet := flag.Bool("quiet", false, "Suppress race commentary")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *quiet {
		race.SetLogWriter(io.Discard)
	} else {
		race.SetLogWriter(os.Stderr)
	}

	// Use config stats window if not overridden by CLI
	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	r := race.NewRace(race.Options{
		Seed:      rngSeed,
		FieldSize: *horses,
	})
	collector := r.Collector()

	slog.Info("starting race",
		"seed", rngSeed,
		"horses", r.FieldSize(),
		"track_length", cfg.Track.Length,
		"laps", cfg.Track.TotalLaps,
	)

	tickMillis := cfg.Field.TickMillis
	windowTicks := int(statsWindowSec * 1000 / tickMillis)
	if windowTicks < 1 {
		windowTicks = 1
	}

	r.Start(0)

	tick := 0
	now := 0.0
	for !r.Done() {
		now += tickMillis
		r.Step(now, tickMillis)
		tick++

		if tick%windowTicks == 0 {
			stats := flushWindow(r, collector, tick, now)
			if *logStats {
				stats.LogStats()
			}
			if err := output.WriteTelemetry(stats); err != nil {
				slog.Error("failed to write telemetry", "error", err)
			}
		}

		if tick >= *maxTicks {
			slog.Error("race did not finish", "ticks", tick)
			break
		}
	}

	// Final partial window so the last stretch is not lost
	if tick%windowTicks != 0 {
		stats := flushWindow(r, collector, tick, now)
		if *logStats {
			stats.LogStats()
		}
		if err := output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
	}

	results := r.Results()
	records := make([]telemetry.FinishRecord, 0, len(results))
	for _, res := range results {
		records = append(records, telemetry.FinishRecord{
			Place:      res.Place,
			Name:       res.Name,
			Lane:       res.Lane,
			Color:      res.Color,
			TimeMillis: res.RaceTime,
		})
		slog.Info("finish",
			"place", res.Place,
			"name", res.Name,
			"lane", res.Lane,
			"time_ms", res.RaceTime,
		)
	}
	if err := output.WriteResults(records); err != nil {
		slog.Error("failed to write results", "error", err)
	}

	slog.Info("race complete", "ticks", tick, "sim_time_sec", now/1000)
}

// flushWindow samples the field and folds the window counters into stats.
func flushWindow(r *race.Race, collector *telemetry.Collector, tick int, now float64) telemetry.WindowStats {
	snapshot := r.Snapshot()
	distances := make([]float64, 0, len(snapshot))
	speeds := make([]float64, 0, len(snapshot))
	active := 0
	for _, h := range snapshot {
		distances = append(distances, h.Distance)
		if !h.Finished {
			speeds = append(speeds, h.Speed)
			active++
		}
	}
	return collector.FlushWindow(tick, now/1000, distances, speeds, active)
}
