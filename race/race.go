// Package race hosts the simulation core: it owns the roster, drives each
// horse's per-tick update, and collects the finish order.
package race

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/derby/components"
	"github.com/pthm-cable/derby/config"
	"github.com/pthm-cable/derby/systems"
	"github.com/pthm-cable/derby/telemetry"
)

// Result is one horse's finishing record.
type Result struct {
	Place      int
	Name       string
	Lane       int
	Color      string
	FinishTime float64 // sim millis at the finish tick
	RaceTime   float64 // millis from race start
}

// Options configures a new race.
type Options struct {
	Seed      int64
	FieldSize int      // 0 = config default
	Names     []string // optional per-lane names; missing entries are drawn
	OnFinish  func(Result)
	Collector *telemetry.Collector // nil = a private collector
}

// Race holds the roster and race clock. All updates happen on the caller's
// goroutine, one horse at a time, in lane order.
type Race struct {
	world *ecs.World
	rng   *rand.Rand

	mapper *ecs.Map6[
		components.Identity,
		components.Attributes,
		components.LapPlan,
		components.Kinematics,
		components.Forces,
		components.EventState,
	]

	// Lane-ordered entity list; iteration order is the documented
	// tie-break for same-tick finishes.
	horses []ecs.Entity

	started   bool
	startTime float64
	now       float64

	results   []Result
	onFinish  func(Result)
	collector *telemetry.Collector
}

// NewRace builds a roster of horses with fresh random attributes and lap
// plans. Config must be initialized first.
func NewRace(opts Options) *Race {
	world := ecs.NewWorld()

	r := &Race{
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		mapper: ecs.NewMap6[
			components.Identity,
			components.Attributes,
			components.LapPlan,
			components.Kinematics,
			components.Forces,
			components.EventState,
		](world),
		onFinish:  opts.OnFinish,
		collector: opts.Collector,
	}
	if r.collector == nil {
		r.collector = telemetry.NewCollector()
	}

	size := opts.FieldSize
	if size <= 0 {
		size = config.Cfg().Field.Size
	}
	r.spawnField(size, opts.Names)

	return r
}

// Start arms the race at the given sim time. Event checks are scheduled
// relative to this moment.
func (r *Race) Start(now float64) {
	r.started = true
	r.startTime = now
	r.now = now

	for _, e := range r.horses {
		_, _, _, _, _, ev := r.mapper.Get(e)
		systems.ScheduleFirstCheck(ev, now, r.rng)
	}
}

// Step advances every unfinished horse by one tick. Horses update one at a
// time in lane order; standings are read live, so a horse updated later in
// the tick sees earlier horses' already-advanced distances.
func (r *Race) Step(now, elapsed float64) {
	if !r.started {
		return
	}
	if elapsed < 0 || math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		elapsed = 0
	}
	r.now = now

	for _, e := range r.horses {
		r.stepHorse(e, now, elapsed)
	}
}

// stepHorse runs one horse's update. A fault in one horse's update is
// fatal to that horse's tick, not to the race.
func (r *Race) stepHorse(e ecs.Entity, now, elapsed float64) {
	defer func() {
		if rec := recover(); rec != nil {
			Logf("update fault, skipping horse this tick: %v", rec)
		}
	}()

	ident, attrs, plan, kin, forces, ev := r.mapper.Get(e)
	if kin.Finished {
		return
	}

	standings := r.activeStandings()

	systems.UpdateLap(kin, forces, standings, ident.Lane, r.rng)

	if fired := systems.UpdateEvents(ev, forces, now, elapsed, r.rng); fired != components.EventNone {
		r.collector.RecordEvent(ident.Lane, fired.String())
	}

	systems.ApplyPositioning(forces, standings, ident.Lane, r.rng)
	systems.DecayMomentum(forces)

	if systems.Advance(kin, attrs, plan, forces, ev, now, elapsed, r.rng) {
		r.recordFinish(ident, kin)
	}
}

// recordFinish appends the result and notifies the host exactly once.
func (r *Race) recordFinish(ident *components.Identity, kin *components.Kinematics) {
	res := Result{
		Place:      len(r.results) + 1,
		Name:       ident.Name,
		Lane:       ident.Lane,
		Color:      ident.Color,
		FinishTime: kin.FinishTime,
		RaceTime:   kin.FinishTime - r.startTime,
	}
	r.results = append(r.results, res)
	r.collector.RecordFinish(res.Lane, res.Place)
	Logf("#%d %s (lane %d) finishes at %.0fms", res.Place, res.Name, res.Lane, res.RaceTime)
	if r.onFinish != nil {
		r.onFinish(res)
	}
}

// activeStandings builds the current order of unfinished horses from live
// component state.
func (r *Race) activeStandings() systems.Standings {
	active := make([]systems.Standing, 0, len(r.horses))
	for _, e := range r.horses {
		ident, _, _, kin, _, _ := r.mapper.Get(e)
		if kin.Finished {
			continue
		}
		active = append(active, systems.Standing{Lane: ident.Lane, Distance: kin.Distance})
	}
	return systems.BuildStandings(active)
}

// Done reports whether every horse has finished.
func (r *Race) Done() bool {
	return len(r.results) == len(r.horses)
}

// Results returns the finish order so far.
func (r *Race) Results() []Result {
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}

// FieldSize returns the roster size.
func (r *Race) FieldSize() int {
	return len(r.horses)
}

// Now returns the sim time of the most recent tick, in millis.
func (r *Race) Now() float64 {
	return r.now
}

// TrackLength returns one lap in track units.
func (r *Race) TrackLength() float64 {
	return config.Cfg().Track.Length
}

// TotalLaps returns the race's lap count.
func (r *Race) TotalLaps() int {
	return config.Cfg().Track.TotalLaps
}

// TotalRaceDistance returns the full race distance in track units.
func (r *Race) TotalRaceDistance() float64 {
	return config.Cfg().Derived.TotalRaceDistance
}

// Collector returns the race's telemetry collector.
func (r *Race) Collector() *telemetry.Collector {
	return r.collector
}

// HorseState is a read-only view of one horse for hosts and telemetry.
type HorseState struct {
	Name     string
	Lane     int
	Color    string
	Distance float64
	Speed    float64
	Lap      int
	Finished bool
	Point    TrackPoint
}

// Snapshot returns the current state of the whole field, lane order.
// Reads do not mutate peer state.
func (r *Race) Snapshot() []HorseState {
	out := make([]HorseState, 0, len(r.horses))
	for _, e := range r.horses {
		ident, _, _, kin, _, _ := r.mapper.Get(e)
		out = append(out, HorseState{
			Name:     ident.Name,
			Lane:     ident.Lane,
			Color:    ident.Color,
			Distance: kin.Distance,
			Speed:    kin.CurrentSpeed,
			Lap:      kin.CurrentLap,
			Finished: kin.Finished,
			Point:    Position(kin.Distance, ident.Lane),
		})
	}
	return out
}

// Reset restores every horse's race state for a rematch. Innate attributes
// and lap plans are preserved, so the same field keeps its personality.
// The race must be started again before stepping.
func (r *Race) Reset() {
	for _, e := range r.horses {
		_, _, _, kin, forces, ev := r.mapper.Get(e)
		*kin = components.Kinematics{CurrentLap: 1}
		*forces = components.Forces{}
		*ev = components.EventState{Multiplier: 1.0}
	}
	r.results = nil
	r.started = false
}
