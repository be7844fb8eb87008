package systems

import (
	"math/rand"

	"github.com/pthm-cable/derby/components"
	"github.com/pthm-cable/derby/config"
)

// drawIn returns a uniform draw from the given range.
func drawIn(r config.Range, rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// ScheduleFirstCheck arms the event machine for the start of a race.
func ScheduleFirstCheck(ev *components.EventState, raceStart float64, rng *rand.Rand) {
	ev.Active = components.EventNone
	ev.Remaining = 0
	ev.Multiplier = 1.0
	ev.NextCheck = raceStart + drawIn(config.Cfg().Events.InitialCheck, rng)
}

// UpdateEvents services the per-horse event machine for one tick.
// While an event is active its countdown runs and no new draw happens;
// only one event can be active at a time. Returns the kind of a newly
// fired event, or EventNone.
func UpdateEvents(ev *components.EventState, forces *components.Forces, now, elapsed float64, rng *rand.Rand) components.EventKind {
	evCfg := &config.Cfg().Events

	if ev.Active != components.EventNone {
		ev.Remaining -= elapsed
		if ev.Remaining <= 0 {
			ev.Active = components.EventNone
			ev.Remaining = 0
			ev.Multiplier = 1.0
			ev.NextCheck = now + drawIn(evCfg.ActiveRecheck, rng)
		}
		return components.EventNone
	}

	if now < ev.NextCheck {
		return components.EventNone
	}

	// Weighted outcome draw. Bands stack in a fixed order; the remainder
	// of the probability mass draws nothing.
	roll := rng.Float64()
	band := evCfg.BurstChance
	switch {
	case roll < band:
		ev.Active = components.EventBurst
		ev.Multiplier = evCfg.BurstMultiplier
		ev.Remaining = drawIn(evCfg.ShortDuration, rng)
		return components.EventBurst

	case roll < band+evCfg.SlowdownChance:
		ev.Active = components.EventSlowdown
		ev.Multiplier = evCfg.SlowMultiplier
		ev.Remaining = drawIn(evCfg.ShortDuration, rng)
		return components.EventSlowdown

	case roll < band+evCfg.SlowdownChance+evCfg.ShiftChance:
		// Instantaneous: kick momentum either way and go straight back to idle.
		shift := evCfg.ShiftMin + rng.Float64()*(evCfg.ShiftMax-evCfg.ShiftMin)
		if rng.Float64() < 0.5 {
			shift = -shift
		}
		forces.Momentum += shift
		ev.NextCheck = now + drawIn(evCfg.ActiveRecheck, rng)
		return components.EventShift

	case roll < band+evCfg.SlowdownChance+evCfg.ShiftChance+evCfg.ComebackChance:
		// Comeback only makes sense for a horse already being pulled
		// forward; otherwise the draw falls through to a reschedule.
		if forces.CatchUpFactor > evCfg.ComebackMinCatch {
			ev.Active = components.EventComeback
			ev.Multiplier = evCfg.ComebackMult
			ev.Remaining = drawIn(evCfg.MediumDuration, rng)
			return components.EventComeback
		}
		ev.NextCheck = now + drawIn(evCfg.IdleRecheck, rng)
		return components.EventNone

	case roll < band+evCfg.SlowdownChance+evCfg.ShiftChance+evCfg.ComebackChance+evCfg.FatigueChance:
		ev.Active = components.EventFatigue
		ev.Multiplier = evCfg.FatigueMult
		ev.Remaining = drawIn(evCfg.MediumDuration, rng)
		return components.EventFatigue

	default:
		ev.NextCheck = now + drawIn(evCfg.IdleRecheck, rng)
		return components.EventNone
	}
}
