// Package systems implements the per-tick race logic over components.
package systems

import (
	"math/rand"
	"sort"

	"github.com/pthm-cable/derby/components"
	"github.com/pthm-cable/derby/config"
)

// Standing is one horse's entry in the current order of the field.
type Standing struct {
	Lane     int
	Distance float64
}

// Standings is the field ordered by distance, leader first.
// Ties are broken by ascending lane so the leader is always deterministic.
type Standings []Standing

// BuildStandings sorts the given active (non-finished) entries into race
// order. The input slice is sorted in place and returned.
func BuildStandings(active []Standing) Standings {
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Distance != active[j].Distance {
			return active[i].Distance > active[j].Distance
		}
		return active[i].Lane < active[j].Lane
	})
	return Standings(active)
}

// Rank returns the 0-based rank of the given lane, or -1 if the lane is
// not in the standings.
func (s Standings) Rank(lane int) int {
	for i, entry := range s {
		if entry.Lane == lane {
			return i
		}
	}
	return -1
}

// ApplyPositioning recomputes the calling horse's catch-up factor or lead
// handicap from the current standings. With fewer than two active horses
// the factors are left at whatever was last computed.
func ApplyPositioning(forces *components.Forces, standings Standings, lane int, rng *rand.Rand) {
	if len(standings) < 2 {
		return
	}
	rank := standings.Rank(lane)
	if rank < 0 {
		return
	}

	bal := &config.Cfg().Balance
	trackLength := config.Cfg().Track.Length

	if rank == 0 {
		// Leader: handicap proportional to the gap back to second place.
		percentAhead := (standings[0].Distance - standings[1].Distance) / trackLength
		forces.LeadHandicap = min(bal.HandicapCap, percentAhead*bal.HandicapFactor)
		forces.CatchUpFactor = 0

		// Occasionally ease off a clear leader.
		if percentAhead > bal.EaseOffMargin && rng.Float64() < bal.EaseOffChance {
			forces.Momentum -= bal.EaseOffMomentum
		}
		return
	}

	// Trailing horse: rank and gap both feed the catch-up factor.
	percentBehind := (standings[0].Distance - standings[rank].Distance) / trackLength
	positionFactor := min(bal.PositionCap, bal.PositionFactor*float64(rank))
	distanceFactor := min(bal.DistanceCap, percentBehind*bal.DistanceFactor)
	catchUp := positionFactor + distanceFactor + rng.Float64()*bal.RandomBoost

	if rank == len(standings)-1 {
		catchUp += bal.LastPlaceBonus
	}
	forces.CatchUpFactor = catchUp
	forces.LeadHandicap = 0

	// Rare recovery surge for the back half of the field. One-time nudge;
	// the probability is re-rolled every tick.
	if rank >= len(standings)/2 && rng.Float64() < bal.RecoveryChance {
		forces.Momentum += bal.RecoveryMomentum
	}
}

// ApplyFinalLapBalance applies the one-shot momentum adjustment when a horse
// enters the final lap. The caller guards against re-entry via
// Forces.FinalLapDone.
func ApplyFinalLapBalance(forces *components.Forces, standings Standings, lane int) {
	forces.FinalLapDone = true

	if len(standings) < 2 {
		return
	}
	rank := standings.Rank(lane)
	if rank < 0 {
		return
	}

	laps := &config.Cfg().Laps
	trackLength := config.Cfg().Track.Length

	if rank == 0 {
		// Rein in a runaway leader heading into the last lap.
		lead := standings[0].Distance - standings[1].Distance
		if lead > trackLength*laps.FinalLeadMargin {
			forces.Momentum -= laps.FinalLeadEase
		}
		return
	}

	n := float64(len(standings))
	grant := min(laps.FinalTrailBase+(float64(rank)/n)*laps.FinalTrailScale, laps.FinalTrailCap)
	if rank == len(standings)-1 {
		grant += laps.FinalLastBonus
	}
	forces.Momentum += grant
}
