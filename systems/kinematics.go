package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/derby/components"
	"github.com/pthm-cable/derby/config"
)

// LapForDistance derives the 1-based lap from cumulative distance,
// clamped to the race's lap count.
func LapForDistance(distance float64) int {
	track := &config.Cfg().Track
	lap := int(math.Floor(distance/track.Length)) + 1
	if lap > track.TotalLaps {
		lap = track.TotalLaps
	}
	if lap < 1 {
		lap = 1
	}
	return lap
}

// UpdateLap recomputes the current lap and handles lap-transition effects:
// an occasional momentum surge, and the one-shot final-lap balancing.
// Returns true if the lap advanced this tick.
func UpdateLap(kin *components.Kinematics, forces *components.Forces, standings Standings, lane int, rng *rand.Rand) bool {
	lap := LapForDistance(kin.Distance)
	if lap <= kin.CurrentLap {
		return false
	}
	kin.CurrentLap = lap

	laps := &config.Cfg().Laps
	if rng.Float64() < laps.SurgeChance {
		forces.Momentum += rng.Float64() * laps.SurgeMax
	}

	if lap == config.Cfg().Track.TotalLaps && !forces.FinalLapDone {
		ApplyFinalLapBalance(forces, standings, lane)
	}
	return true
}

// DecayMomentum applies the per-tick geometric decay, snapping to zero
// once momentum falls under the floor.
func DecayMomentum(forces *components.Forces) {
	bal := &config.Cfg().Balance
	if math.Abs(forces.Momentum) > bal.MomentumFloor {
		forces.Momentum *= bal.MomentumDecay
	} else {
		forces.Momentum = 0
	}
}

// Advance integrates one tick of motion: stamina and luck factors, target
// speed composition, asymmetric acceleration toward it, the speed floor,
// and distance accumulation. Marks the horse finished when it crosses the
// full race distance inside the finish window. Returns true on the tick
// the horse finishes.
func Advance(
	kin *components.Kinematics,
	attrs *components.Attributes,
	plan *components.LapPlan,
	forces *components.Forces,
	ev *components.EventState,
	now, elapsed float64,
	rng *rand.Rand,
) bool {
	if kin.Finished {
		return false
	}
	// Malformed tick timing is clamped, never propagated (the race must
	// not crash on a bad frame).
	if elapsed < 0 || math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		elapsed = 0
	}

	cfg := config.Cfg()
	bal := &cfg.Balance
	track := &cfg.Track
	lapFactor := plan.Factor(kin.CurrentLap)
	dt := elapsed / 1000.0

	// Stamina fades with race progress, slower for durable horses.
	raceProgress := kin.Distance / cfg.Derived.TotalRaceDistance
	staminaFactor := math.Max(bal.StaminaFloor, 1-raceProgress/(attrs.Stamina+lapFactor.StaminaBoost))

	// Per-tick jitter, wider for lucky horses.
	randomFactor := 1 + (rng.Float64()-0.5)*(attrs.Luck+bal.LuckSpread)

	targetSpeed := attrs.BaseSpeed * (1 + lapFactor.SpeedBoost + forces.CatchUpFactor - forces.LeadHandicap + forces.Momentum)

	// Chase the target: full acceleration (boosted by catch-up) when slow,
	// gentle braking when well over, hold inside the slack band.
	switch {
	case kin.CurrentSpeed < targetSpeed:
		kin.CurrentSpeed += attrs.Acceleration * (1 + forces.CatchUpFactor) * dt
	case kin.CurrentSpeed > targetSpeed*(1+bal.OverspeedSlack):
		kin.CurrentSpeed -= attrs.Acceleration * bal.BrakeFactor * dt
	}

	minSpeed := bal.MinSpeedBase + forces.CatchUpFactor*bal.MinSpeedCatchUp
	if kin.CurrentSpeed < minSpeed {
		kin.CurrentSpeed = minSpeed
	}

	actualSpeed := kin.CurrentSpeed * staminaFactor * randomFactor * ev.Multiplier
	kin.Distance += actualSpeed * dt * track.DistanceScale

	// Finish only inside the window just past the start line, so the
	// sprite visually crosses the post rather than stopping mid-turn.
	if kin.Distance >= cfg.Derived.TotalRaceDistance {
		lapPos := math.Mod(kin.Distance, track.Length)
		if lapPos <= track.FinishWindow {
			kin.Finished = true
			kin.FinishTime = now
			return true
		}
	}
	return false
}
