package analysis

import (
	"math"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	"github.com/ybird-labs/senate-insight-lab/pkg/config"
)

const weightTolerance = 1e-6

// Weights is the named weight set for the four evidence signals.
type Weights struct {
	Timing    float64
	Committee float64
	Price     float64
	Volume    float64
}

// Sum returns the total weight. Must equal 1.0 within tolerance.
func (w Weights) Sum() float64 {
	return w.Timing + w.Committee + w.Price + w.Volume
}

// DefaultWeights returns the production weight set.
func DefaultWeights() Weights {
	return Weights{Timing: 0.30, Committee: 0.25, Price: 0.35, Volume: 0.10}
}

// Params owns every tunable of the detector. Validated once at construction;
// never mutated afterwards so scoring stays pure.
type Params struct {
	// Timing
	TimingWindowDays int // gaps in [0, window] count
	NearWindowDays   int // gap <= near scores the full 1.0
	FarWindowScore   float64

	// Price movement
	SignificantPriceChange float64 // favorable change at which the upper ramp starts
	AtThresholdScore       float64 // score exactly at the threshold
	PriceCapMultiple       float64 // change of cap*threshold saturates at 1.0
	PriceSlipDays          int     // nearest-trading-day search window

	// Volume anomaly
	VolumeBaselineDays int
	VolumeMinSamples   int
	VolumeZLow         float64 // below → 0
	VolumeZHigh        float64 // at/above → 1

	// Aggregation
	Weights       Weights
	MinConfidence float64
	TierMedium    float64
	TierHigh      float64
}

// DefaultParams returns the default detector parameters.
func DefaultParams() Params {
	return Params{
		TimingWindowDays:       30,
		NearWindowDays:         14,
		FarWindowScore:         0.5,
		SignificantPriceChange: 0.05,
		AtThresholdScore:       0.4,
		PriceCapMultiple:       4.0,
		PriceSlipDays:          5,
		VolumeBaselineDays:     30,
		VolumeMinSamples:       5,
		VolumeZLow:             2.0,
		VolumeZHigh:            4.0,
		Weights:                DefaultWeights(),
		MinConfidence:          0.3,
		TierMedium:             0.5,
		TierHigh:               0.7,
	}
}

// ParamsFromConfig builds detector parameters from application configuration,
// keeping package defaults for everything the config does not own.
func ParamsFromConfig(cfg *config.Config) Params {
	p := DefaultParams()
	p.TimingWindowDays = cfg.Analysis.TimingWindowDays
	p.SignificantPriceChange = cfg.Analysis.SignificantPriceChange
	p.MinConfidence = cfg.Analysis.MinConfidenceThreshold
	if w := cfg.Analysis.Weights; w.Timing+w.Committee+w.Price+w.Volume > 0 {
		p.Weights = Weights{Timing: w.Timing, Committee: w.Committee, Price: w.Price, Volume: w.Volume}
	}
	if cfg.Analysis.Tiers.Medium > 0 {
		p.TierMedium = cfg.Analysis.Tiers.Medium
	}
	if cfg.Analysis.Tiers.High > 0 {
		p.TierHigh = cfg.Analysis.Tiers.High
	}
	return p
}

// Validate rejects parameter sets that would make scoring meaningless.
func (p Params) Validate() error {
	if math.Abs(p.Weights.Sum()-1.0) > weightTolerance {
		return models.NewConfigError("weights", "must sum to 1.0, got %.4f", p.Weights.Sum())
	}
	for name, w := range map[string]float64{
		"timing": p.Weights.Timing, "committee": p.Weights.Committee,
		"price": p.Weights.Price, "volume": p.Weights.Volume,
	} {
		if w < 0 || w > 1 {
			return models.NewConfigError("weights."+name, "must be in [0,1], got %g", w)
		}
	}
	if p.MinConfidence < 0 || p.MinConfidence > 1 {
		return models.NewConfigError("min_confidence", "must be in [0,1], got %g", p.MinConfidence)
	}
	if p.TimingWindowDays <= 0 {
		return models.NewConfigError("timing_window_days", "must be positive, got %d", p.TimingWindowDays)
	}
	if p.NearWindowDays < 0 || p.NearWindowDays > p.TimingWindowDays {
		return models.NewConfigError("near_window_days", "must be in [0, window], got %d", p.NearWindowDays)
	}
	if p.SignificantPriceChange <= 0 {
		return models.NewConfigError("significant_price_change", "must be positive, got %g", p.SignificantPriceChange)
	}
	if p.PriceCapMultiple <= 1 {
		return models.NewConfigError("price_cap_multiple", "must exceed 1, got %g", p.PriceCapMultiple)
	}
	if p.VolumeMinSamples < 2 {
		return models.NewConfigError("volume_min_samples", "must be at least 2, got %d", p.VolumeMinSamples)
	}
	if p.VolumeZHigh <= p.VolumeZLow {
		return models.NewConfigError("volume_z", "high bound %g must exceed low bound %g", p.VolumeZHigh, p.VolumeZLow)
	}
	if !(p.MinConfidence <= p.TierMedium && p.TierMedium < p.TierHigh && p.TierHigh <= 1) {
		return models.NewConfigError("tiers", "expected min <= medium < high <= 1, got %g/%g/%g",
			p.MinConfidence, p.TierMedium, p.TierHigh)
	}
	return nil
}
