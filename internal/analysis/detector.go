// Package analysis implements the correlation and scoring engine: four
// stateless signal scorers over a (member, transaction) pair and the
// weighted aggregation that turns them into a bounded confidence value.
package analysis

import (
	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
)

// Detector evaluates one transaction against a member's legislative,
// committee and market context. All methods are pure: a Detector is safe to
// share across goroutines.
type Detector struct {
	params     Params
	industries *IndustryMap
}

// NewDetector validates the parameter set and builds a detector.
// Invalid parameters are a startup failure, never a scoring-time one.
func NewDetector(p Params, industries *IndustryMap) (*Detector, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if industries == nil {
		industries = DefaultIndustryMap()
	}
	return &Detector{params: p, industries: industries}, nil
}

// Params returns the validated parameter set.
func (d *Detector) Params() Params { return d.params }

// Industries returns the lookup tables the detector scores with.
func (d *Detector) Industries() *IndustryMap { return d.industries }

// Score runs all four signal scorers for one transaction.
func (d *Detector) Score(
	tx models.Transaction,
	actions []models.LegislativeAction,
	assignments []models.CommitteeAssignment,
	prices models.PriceSeries,
) models.SignalScores {
	return models.SignalScores{
		Timing:    d.TimingScore(tx, actions),
		Committee: d.CommitteeScore(tx, assignments),
		Price:     d.PriceMovementScore(tx, prices),
		Volume:    d.VolumeAnomalyScore(tx, prices),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
