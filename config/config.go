// Package config provides configuration loading and access for the race simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all race simulation parameters.
type Config struct {
	Track      TrackConfig      `yaml:"track"`
	Field      FieldConfig      `yaml:"field"`
	Attributes AttributesConfig `yaml:"attributes"`
	Laps       LapsConfig       `yaml:"laps"`
	Balance    BalanceConfig    `yaml:"balance"`
	Events     EventsConfig     `yaml:"events"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// TrackConfig holds track geometry and race length parameters.
type TrackConfig struct {
	Length        float64 `yaml:"length"`         // One lap in track units
	TotalLaps     int     `yaml:"total_laps"`     // Laps per race
	LaneSpacing   float64 `yaml:"lane_spacing"`   // Outward offset per lane, track units
	FinishWindow  float64 `yaml:"finish_window"`  // Lap-relative tolerance past the start line for finish detection
	DistanceScale float64 `yaml:"distance_scale"` // Track units per speed-unit-second
}

// FieldConfig holds roster parameters.
type FieldConfig struct {
	Size       int     `yaml:"size"`        // Number of horses
	TickMillis float64 `yaml:"tick_millis"` // Headless driver frame interval
}

// Range is a bounded uniform draw range.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// AttributesConfig holds the innate attribute draw ranges.
// Attributes are fixed for a horse's lifetime and survive Reset.
type AttributesConfig struct {
	BaseSpeed    Range `yaml:"base_speed"`
	Stamina      Range `yaml:"stamina"`
	Acceleration Range `yaml:"acceleration"`
	Luck         Range `yaml:"luck"`
}

// LapsConfig holds per-lap modifier draw ranges and lap-transition tuning.
type LapsConfig struct {
	SpeedBoost      Range   `yaml:"speed_boost"`       // Per-lap additive speed modifier
	StaminaBoost    Range   `yaml:"stamina_boost"`     // Per-lap additive stamina modifier
	SurgeChance     float64 `yaml:"surge_chance"`      // Momentum surge probability on lap transition
	SurgeMax        float64 `yaml:"surge_max"`         // Max momentum surge on lap transition
	FinalLeadEase   float64 `yaml:"final_lead_ease"`   // Momentum cut for a clear final-lap leader
	FinalLeadMargin float64 `yaml:"final_lead_margin"` // Lead fraction of track length that triggers the cut
	FinalTrailBase  float64 `yaml:"final_trail_base"`  // Base final-lap momentum grant for trailers
	FinalTrailScale float64 `yaml:"final_trail_scale"` // Rank-proportional part of the grant
	FinalTrailCap   float64 `yaml:"final_trail_cap"`   // Cap on the trailer grant
	FinalLastBonus  float64 `yaml:"final_last_bonus"`  // Extra momentum for last place on the final lap
}

// BalanceConfig holds the per-tick catch-up / handicap tuning.
type BalanceConfig struct {
	PositionFactor   float64 `yaml:"position_factor"`    // Catch-up per rank behind the leader
	PositionCap      float64 `yaml:"position_cap"`       // Cap on the rank component
	DistanceFactor   float64 `yaml:"distance_factor"`    // Catch-up per track-length fraction behind
	DistanceCap      float64 `yaml:"distance_cap"`       // Cap on the distance component
	RandomBoost      float64 `yaml:"random_boost"`       // Upper bound of the uniform catch-up jitter
	LastPlaceBonus   float64 `yaml:"last_place_bonus"`   // Flat catch-up bonus for last place
	RecoveryChance   float64 `yaml:"recovery_chance"`    // Back-half momentum nudge probability
	RecoveryMomentum float64 `yaml:"recovery_momentum"`  // Size of the back-half nudge
	HandicapFactor   float64 `yaml:"handicap_factor"`    // Leader handicap per track-length fraction ahead
	HandicapCap      float64 `yaml:"handicap_cap"`       // Cap on the leader handicap
	EaseOffChance    float64 `yaml:"ease_off_chance"`    // Leader ease-off probability
	EaseOffMargin    float64 `yaml:"ease_off_margin"`    // Lead fraction that arms the ease-off
	EaseOffMomentum  float64 `yaml:"ease_off_momentum"`  // Momentum subtracted on ease-off
	MomentumDecay    float64 `yaml:"momentum_decay"`     // Per-tick momentum multiplier
	MomentumFloor    float64 `yaml:"momentum_floor"`     // |momentum| below this snaps to zero
	StaminaFloor     float64 `yaml:"stamina_floor"`      // Lower clamp on the stamina factor
	LuckSpread       float64 `yaml:"luck_spread"`        // Added to luck for the per-tick jitter width
	MinSpeedBase     float64 `yaml:"min_speed_base"`     // Speed floor before the catch-up term
	MinSpeedCatchUp  float64 `yaml:"min_speed_catch_up"` // Speed floor gain per catch-up unit
	OverspeedSlack   float64 `yaml:"overspeed_slack"`    // Fraction above target before braking
	BrakeFactor      float64 `yaml:"brake_factor"`       // Deceleration as a fraction of acceleration
}

// EventsConfig holds the random event subsystem tuning.
// Chances are probability mass out of 1.0; the remainder draws no event.
type EventsConfig struct {
	BurstChance      float64 `yaml:"burst_chance"`
	SlowdownChance   float64 `yaml:"slowdown_chance"`
	ShiftChance      float64 `yaml:"shift_chance"`
	ComebackChance   float64 `yaml:"comeback_chance"`
	FatigueChance    float64 `yaml:"fatigue_chance"`
	BurstMultiplier  float64 `yaml:"burst_multiplier"`
	SlowMultiplier   float64 `yaml:"slow_multiplier"`
	ComebackMult     float64 `yaml:"comeback_multiplier"`
	FatigueMult      float64 `yaml:"fatigue_multiplier"`
	ComebackMinCatch float64 `yaml:"comeback_min_catch_up"` // Catch-up needed before a comeback can fire
	ShiftMin         float64 `yaml:"shift_min"`             // Momentum shift magnitude range
	ShiftMax         float64 `yaml:"shift_max"`
	ShortDuration    Range   `yaml:"short_duration"`  // Burst/slowdown duration, ms
	MediumDuration   Range   `yaml:"medium_duration"` // Comeback/fatigue duration, ms
	InitialCheck     Range   `yaml:"initial_check"`   // First event check after race start, ms
	IdleRecheck      Range   `yaml:"idle_recheck"`    // Recheck delay after a no-event draw, ms
	ActiveRecheck    Range   `yaml:"active_recheck"`  // Recheck delay after an event resolves, ms
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds of sim time per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TotalRaceDistance float64 // Track.Length * Track.TotalLaps
	TickSeconds       float64 // Field.TickMillis / 1000
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Track.TotalLaps < 1 {
		c.Track.TotalLaps = 1
	}
	if c.Field.Size < 2 {
		c.Field.Size = 2
	}
	c.Derived.TotalRaceDistance = c.Track.Length * float64(c.Track.TotalLaps)
	c.Derived.TickSeconds = c.Field.TickMillis / 1000.0
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
