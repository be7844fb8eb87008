// Package telemetry aggregates race statistics and writes structured output.
package telemetry

// Collector accumulates per-window race counters. It is owned by a single
// race and accessed only from the tick goroutine.
type Collector struct {
	// Window counters, reset by FlushWindow
	eventCounts map[string]int
	finishes    int

	// Race totals
	totalEvents   map[string]int
	totalFinishes int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		eventCounts: make(map[string]int),
		totalEvents: make(map[string]int),
	}
}

// RecordEvent counts a fired race event by kind.
func (c *Collector) RecordEvent(lane int, kind string) {
	c.eventCounts[kind]++
	c.totalEvents[kind]++
}

// RecordFinish counts a horse crossing the line.
func (c *Collector) RecordFinish(lane, place int) {
	c.finishes++
	c.totalFinishes++
}

// TotalEvents returns the race-total count for an event kind.
func (c *Collector) TotalEvents(kind string) int {
	return c.totalEvents[kind]
}

// TotalFinishes returns the race-total finish count.
func (c *Collector) TotalFinishes() int {
	return c.totalFinishes
}

// FlushWindow folds the window counters into a WindowStats built from the
// given field sample and resets them for the next window.
func (c *Collector) FlushWindow(tick int, simTimeSec float64, distances, speeds []float64, active int) WindowStats {
	stats := ComputeWindowStats(tick, simTimeSec, distances, speeds, active)

	stats.Bursts = c.eventCounts["burst of speed"]
	stats.Slowdowns = c.eventCounts["slight slowdown"]
	stats.Shifts = c.eventCounts["momentum shift"]
	stats.Comebacks = c.eventCounts["comeback effort"]
	stats.Fatigues = c.eventCounts["brief fatigue"]
	stats.Finishes = c.finishes

	c.eventCounts = make(map[string]int)
	c.finishes = 0

	return stats
}
