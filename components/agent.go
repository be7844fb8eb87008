// Package components defines ECS components for the race simulation.
package components

// Identity names a horse. Fixed at creation, cosmetic except for Lane,
// which also fixes the roster update order and breaks standing ties.
type Identity struct {
	Name  string
	Lane  int    // 0-based, fixed at creation
	Color string // silk color token, cosmetic only
}

// Attributes are a horse's innate traits, drawn once from bounded ranges.
// They survive Reset so a rematch keeps the same personality.
type Attributes struct {
	BaseSpeed    float64
	Stamina      float64
	Acceleration float64 // speed units gained per second
	Luck         float64 // widens the per-tick random factor
}

// LapFactor is one lap's worth of additive modifiers.
type LapFactor struct {
	SpeedBoost   float64
	StaminaBoost float64
}

// LapPlan holds one LapFactor per lap, generated at creation.
// Indexed by CurrentLap-1; survives Reset.
type LapPlan struct {
	Factors []LapFactor
}

// Factor returns the modifiers for the given 1-based lap.
func (p *LapPlan) Factor(lap int) LapFactor {
	if lap < 1 || lap > len(p.Factors) {
		return LapFactor{}
	}
	return p.Factors[lap-1]
}

// Kinematics is a horse's mutable race state.
// Distance is monotonic non-decreasing while racing; once Finished is set
// the whole component is frozen.
type Kinematics struct {
	CurrentSpeed float64
	Distance     float64
	CurrentLap   int // 1-based, derived from Distance, never exceeds total laps
	Finished     bool
	FinishTime   float64 // sim millis; valid only when Finished
}

// Forces holds the pack-balancing state recomputed each tick.
// At most one of CatchUpFactor / LeadHandicap is non-zero: rank 0 takes
// the handicap path, everyone else the catch-up path.
type Forces struct {
	Momentum      float64 // signed, decays toward zero each tick
	CatchUpFactor float64 // >= 0, trailing horses only
	LeadHandicap  float64 // >= 0, leader only
	FinalLapDone  bool    // final-lap balancing fired
}

// EventKind identifies a random race event.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventBurst
	EventSlowdown
	EventShift
	EventComeback
	EventFatigue
)

// String returns a commentary-friendly event name.
func (k EventKind) String() string {
	switch k {
	case EventBurst:
		return "burst of speed"
	case EventSlowdown:
		return "slight slowdown"
	case EventShift:
		return "momentum shift"
	case EventComeback:
		return "comeback effort"
	case EventFatigue:
		return "brief fatigue"
	default:
		return "none"
	}
}

// EventState is the per-horse random event machine.
// Active is EventNone while idle; while an event runs, Multiplier applies
// and Remaining counts down by elapsed millis.
type EventState struct {
	Active     EventKind
	Remaining  float64 // ms left on the active event
	Multiplier float64 // speed multiplier; 1.0 while idle
	NextCheck  float64 // sim millis of the next outcome draw
}
