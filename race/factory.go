package race

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/derby/components"
	"github.com/pthm-cable/derby/config"
)

// draw returns a uniform value from the given range.
func draw(r config.Range, rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// spawnField creates the roster, one horse per lane.
func (r *Race) spawnField(size int, names []string) {
	for lane := 0; lane < size; lane++ {
		name := ""
		if lane < len(names) {
			name = names[lane]
		}
		r.horses = append(r.horses, r.spawnHorse(lane, name))
	}
}

// spawnHorse creates one horse with fresh innate attributes and a per-lap
// modifier plan. Both survive Reset.
func (r *Race) spawnHorse(lane int, name string) ecs.Entity {
	cfg := config.Cfg()

	if name == "" {
		name = randomName(r.rng)
	}
	ident := components.Identity{
		Name:  name,
		Lane:  lane,
		Color: silkColor(lane),
	}

	attrs := components.Attributes{
		BaseSpeed:    draw(cfg.Attributes.BaseSpeed, r.rng),
		Stamina:      draw(cfg.Attributes.Stamina, r.rng),
		Acceleration: draw(cfg.Attributes.Acceleration, r.rng),
		Luck:         draw(cfg.Attributes.Luck, r.rng),
	}

	plan := components.LapPlan{Factors: make([]components.LapFactor, cfg.Track.TotalLaps)}
	for i := range plan.Factors {
		plan.Factors[i] = components.LapFactor{
			SpeedBoost:   draw(cfg.Laps.SpeedBoost, r.rng),
			StaminaBoost: draw(cfg.Laps.StaminaBoost, r.rng),
		}
	}

	kin := components.Kinematics{CurrentLap: 1}
	forces := components.Forces{}
	ev := components.EventState{Multiplier: 1.0}

	return r.mapper.NewEntity(&ident, &attrs, &plan, &kin, &forces, &ev)
}
