package srs

import (
	"github.com/anwarji786/EnglishLearningApp/internal/domain"
)

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// Ease factor limits and starting value
	MinEaseFactor     float64
	MaxEaseFactor     float64
	InitialEaseFactor float64

	// Interval limits (days) and starting value
	MinIntervalDays     int
	MaxIntervalDays     int
	InitialIntervalDays int

	// Per-outcome ease factor adjustments
	EaseFactorAdjustment map[domain.ReviewOutcome]float64

	// Per-outcome interval growth modifiers. The good modifier multiplies the
	// ease factor directly; the easy modifier is applied on top of it.
	IntervalModifier map[domain.ReviewOutcome]float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values leave the corresponding default in place.
type ParamsConfig struct {
	MinEaseFactor     float64 `mapstructure:"min_ease_factor"`
	MaxEaseFactor     float64 `mapstructure:"max_ease_factor"`
	InitialEaseFactor float64 `mapstructure:"initial_ease_factor"`

	MinIntervalDays     int `mapstructure:"min_interval_days"`
	MaxIntervalDays     int `mapstructure:"max_interval_days"`
	InitialIntervalDays int `mapstructure:"initial_interval_days"`

	AgainEaseFactorAdjustment float64 `mapstructure:"again_ease_factor_adjustment"`
	HardEaseFactorAdjustment  float64 `mapstructure:"hard_ease_factor_adjustment"`
	GoodEaseFactorAdjustment  float64 `mapstructure:"good_ease_factor_adjustment"`
	EasyEaseFactorAdjustment  float64 `mapstructure:"easy_ease_factor_adjustment"`

	HardIntervalModifier float64 `mapstructure:"hard_interval_modifier"`
	GoodIntervalModifier float64 `mapstructure:"good_interval_modifier"`
	EasyIntervalModifier float64 `mapstructure:"easy_interval_modifier"`
}

// NewDefaultParams creates a new Params instance with default values.
// The defaults follow the SM-2 family: ease between 1.3 and 2.5, one-day
// minimum interval, growth capped at ten years.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:     1.3,
		MaxEaseFactor:     2.5,
		InitialEaseFactor: 2.5,

		MinIntervalDays:     1,
		MaxIntervalDays:     3650,
		InitialIntervalDays: 1,

		EaseFactorAdjustment: map[domain.ReviewOutcome]float64{
			domain.ReviewOutcomeAgain: -0.20,
			domain.ReviewOutcomeHard:  -0.15,
			domain.ReviewOutcomeGood:  0.0,
			domain.ReviewOutcomeEasy:  0.15,
		},

		IntervalModifier: map[domain.ReviewOutcome]float64{
			domain.ReviewOutcomeHard: 1.2, // Slight growth, ignores ease factor
			domain.ReviewOutcomeGood: 1.0, // Multiplied with the ease factor
			domain.ReviewOutcomeEasy: 1.3, // Bonus on top of the ease factor
		},
	}
}

// NewParams creates a new Params instance, overriding defaults with any
// non-zero values from the config.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}
	if config.InitialEaseFactor > 0 {
		params.InitialEaseFactor = config.InitialEaseFactor
	}

	if config.MinIntervalDays > 0 {
		params.MinIntervalDays = config.MinIntervalDays
	}
	if config.MaxIntervalDays > 0 {
		params.MaxIntervalDays = config.MaxIntervalDays
	}
	if config.InitialIntervalDays > 0 {
		params.InitialIntervalDays = config.InitialIntervalDays
	}

	if config.AgainEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.ReviewOutcomeAgain] = config.AgainEaseFactorAdjustment
	}
	if config.HardEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.ReviewOutcomeHard] = config.HardEaseFactorAdjustment
	}
	if config.GoodEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.ReviewOutcomeGood] = config.GoodEaseFactorAdjustment
	}
	if config.EasyEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.ReviewOutcomeEasy] = config.EasyEaseFactorAdjustment
	}

	if config.HardIntervalModifier > 0 {
		params.IntervalModifier[domain.ReviewOutcomeHard] = config.HardIntervalModifier
	}
	if config.GoodIntervalModifier > 0 {
		params.IntervalModifier[domain.ReviewOutcomeGood] = config.GoodIntervalModifier
	}
	if config.EasyIntervalModifier > 0 {
		params.IntervalModifier[domain.ReviewOutcomeEasy] = config.EasyIntervalModifier
	}

	return params
}
