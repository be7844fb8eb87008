package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/derby/components"
)

func TestBuildStandingsOrder(t *testing.T) {
	standings := BuildStandings([]Standing{
		{Lane: 0, Distance: 100},
		{Lane: 1, Distance: 300},
		{Lane: 2, Distance: 200},
	})

	wantLanes := []int{1, 2, 0}
	for i, want := range wantLanes {
		if standings[i].Lane != want {
			t.Errorf("rank %d = lane %d, want lane %d", i, standings[i].Lane, want)
		}
	}
}

func TestBuildStandingsTieBreakByLane(t *testing.T) {
	standings := BuildStandings([]Standing{
		{Lane: 3, Distance: 500},
		{Lane: 1, Distance: 500},
		{Lane: 2, Distance: 400},
	})

	// Equal distances rank by ascending lane, so lane 1 is the leader.
	if standings[0].Lane != 1 || standings[1].Lane != 3 {
		t.Errorf("tie order = lanes %d,%d, want 1,3", standings[0].Lane, standings[1].Lane)
	}
}

func TestApplyPositioningTrailing(t *testing.T) {
	// Track length 1000, A at 950, B at 900: B's positionFactor is 0.03,
	// distanceFactor is 0.05*1.5 = 0.075, plus jitter in [0, 0.1) and the
	// last-place bonus 0.15.
	standings := BuildStandings([]Standing{
		{Lane: 0, Distance: 950},
		{Lane: 1, Distance: 900},
	})
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		forces := components.Forces{}
		ApplyPositioning(&forces, standings, 1, rng)

		if forces.CatchUpFactor < 0.255 || forces.CatchUpFactor >= 0.355 {
			t.Fatalf("catch-up factor = %v, want in [0.255, 0.355)", forces.CatchUpFactor)
		}
		if forces.LeadHandicap != 0 {
			t.Fatalf("trailing horse got lead handicap %v", forces.LeadHandicap)
		}
	}
}

func TestApplyPositioningLeader(t *testing.T) {
	standings := BuildStandings([]Standing{
		{Lane: 0, Distance: 950},
		{Lane: 1, Distance: 900},
	})
	rng := rand.New(rand.NewSource(7))

	forces := components.Forces{CatchUpFactor: 0.5}
	ApplyPositioning(&forces, standings, 0, rng)

	// percentAhead = 0.05, handicap = min(0.3, 0.05*2) = 0.1
	if got := forces.LeadHandicap; got < 0.0999 || got > 0.1001 {
		t.Errorf("lead handicap = %v, want 0.1", got)
	}
	if forces.CatchUpFactor != 0 {
		t.Errorf("leader catch-up factor = %v, want 0", forces.CatchUpFactor)
	}
}

func TestApplyPositioningHandicapCap(t *testing.T) {
	standings := BuildStandings([]Standing{
		{Lane: 0, Distance: 900},
		{Lane: 1, Distance: 100},
	})
	rng := rand.New(rand.NewSource(1))

	forces := components.Forces{}
	ApplyPositioning(&forces, standings, 0, rng)

	if forces.LeadHandicap != 0.3 {
		t.Errorf("lead handicap = %v, want capped at 0.3", forces.LeadHandicap)
	}
}

func TestApplyPositioningExactlyOneLeader(t *testing.T) {
	standings := BuildStandings([]Standing{
		{Lane: 0, Distance: 400},
		{Lane: 1, Distance: 800},
		{Lane: 2, Distance: 600},
		{Lane: 3, Distance: 200},
	})
	rng := rand.New(rand.NewSource(3))

	handicapped := 0
	for lane := 0; lane < 4; lane++ {
		forces := components.Forces{}
		ApplyPositioning(&forces, standings, lane, rng)
		if forces.LeadHandicap > 0 {
			handicapped++
			if lane != 1 {
				t.Errorf("lane %d got handicap, want only lane 1", lane)
			}
		} else if forces.CatchUpFactor < 0 {
			t.Errorf("lane %d catch-up factor negative", lane)
		}
	}
	if handicapped != 1 {
		t.Errorf("%d horses handicapped, want exactly 1", handicapped)
	}
}

func TestApplyPositioningFewerThanTwoActive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	forces := components.Forces{CatchUpFactor: 0.42, LeadHandicap: 0.07, Momentum: 0.1}
	before := forces

	ApplyPositioning(&forces, BuildStandings([]Standing{{Lane: 0, Distance: 100}}), 0, rng)

	if forces != before {
		t.Errorf("single-horse standings mutated forces: %+v", forces)
	}
}

func TestApplyFinalLapBalanceLeader(t *testing.T) {
	// 100-unit lead on a 1000 track exceeds the 5% margin.
	standings := BuildStandings([]Standing{
		{Lane: 0, Distance: 2100},
		{Lane: 1, Distance: 2000},
	})

	forces := components.Forces{}
	ApplyFinalLapBalance(&forces, standings, 0)

	if got := forces.Momentum; got > -0.0999 || got < -0.1001 {
		t.Errorf("leader momentum = %v, want -0.1", got)
	}
	if !forces.FinalLapDone {
		t.Error("FinalLapDone not set")
	}
}

func TestApplyFinalLapBalanceCloseLeaderUntouched(t *testing.T) {
	standings := BuildStandings([]Standing{
		{Lane: 0, Distance: 2010},
		{Lane: 1, Distance: 2000},
	})

	forces := components.Forces{}
	ApplyFinalLapBalance(&forces, standings, 0)

	if forces.Momentum != 0 {
		t.Errorf("close leader momentum = %v, want 0", forces.Momentum)
	}
}

func TestApplyFinalLapBalanceTrailers(t *testing.T) {
	standings := BuildStandings([]Standing{
		{Lane: 0, Distance: 2100},
		{Lane: 1, Distance: 2050},
		{Lane: 2, Distance: 2000},
		{Lane: 3, Distance: 1900},
	})

	// Rank 1 of 4: min(0.1 + (1/4)*0.15, 0.25) = 0.1375
	forces := components.Forces{}
	ApplyFinalLapBalance(&forces, standings, 1)
	if got := forces.Momentum; got < 0.1374 || got > 0.1376 {
		t.Errorf("rank 1 momentum = %v, want 0.1375", got)
	}

	// Last place: min(0.1 + (3/4)*0.15, 0.25) = 0.2125, plus 0.1 bonus
	forces = components.Forces{}
	ApplyFinalLapBalance(&forces, standings, 3)
	if got := forces.Momentum; got < 0.3124 || got > 0.3126 {
		t.Errorf("last place momentum = %v, want 0.3125", got)
	}
}
