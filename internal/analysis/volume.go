package analysis

import (
	"math"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
)

// VolumeAnomalyScore measures how unusual the transaction day's trading
// volume was against a trailing baseline ending strictly before the
// transaction date. The z-score of the day's volume maps linearly from
// VolumeZLow (score 0) to VolumeZHigh (score 1). A baseline with too few
// samples or zero variance is insufficient evidence and scores 0.0.
func (d *Detector) VolumeAnomalyScore(tx models.Transaction, prices models.PriceSeries) float64 {
	if prices.Empty() {
		return 0.0
	}

	baseline := prices.Before(tx.TransactionDate, d.params.VolumeBaselineDays)
	if len(baseline) < d.params.VolumeMinSamples {
		return 0.0
	}

	day, ok := prices.At(tx.TransactionDate, d.params.PriceSlipDays)
	if !ok {
		return 0.0
	}

	mean, stddev := meanStddev(baseline)
	if stddev == 0 {
		return 0.0
	}

	z := (day.Volume - mean) / stddev
	if z < d.params.VolumeZLow {
		return 0.0
	}
	if z >= d.params.VolumeZHigh {
		return 1.0
	}
	return clamp01((z - d.params.VolumeZLow) / (d.params.VolumeZHigh - d.params.VolumeZLow))
}

func meanStddev(points []models.PricePoint) (mean, stddev float64) {
	n := float64(len(points))
	for _, p := range points {
		mean += p.Volume
	}
	mean /= n

	var ss float64
	for _, p := range points {
		diff := p.Volume - mean
		ss += diff * diff
	}
	// sample standard deviation
	stddev = math.Sqrt(ss / (n - 1))
	return mean, stddev
}
