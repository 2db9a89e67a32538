package analysis

import (
	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
)

// Aggregate combines the four component scores into the overall confidence
// via the detector's weight set. The result is bounded to [0,1]; with
// weights summing to 1.0 and components in range the clamp is a no-op.
func (d *Detector) Aggregate(s models.SignalScores) float64 {
	w := d.params.Weights
	return clamp01(s.Timing*w.Timing + s.Committee*w.Committee + s.Price*w.Price + s.Volume*w.Volume)
}

// Severity classifies a confidence value into its tier. Confidence below
// the minimum threshold is suppressed entirely and reported as (_, false).
func (d *Detector) Severity(confidence float64) (models.Severity, bool) {
	switch {
	case confidence < d.params.MinConfidence:
		return "", false
	case confidence >= d.params.TierHigh:
		return models.SeverityHigh, true
	case confidence >= d.params.TierMedium:
		return models.SeverityMedium, true
	default:
		return models.SeverityLow, true
	}
}
