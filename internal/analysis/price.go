package analysis

import (
	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
)

// PriceMovementScore measures how favorably the price moved after the
// transaction. The reference price is the closest trading day on or after
// the transaction date; the later price is the last sample within the
// window. A purchase profits from a rise, a sale from a drop: a price
// falling after a disposal means the seller dodged the loss, so that is the
// favorable direction. Favorable change below the significance threshold scales
// linearly from 0; above it the score ramps to 1.0, saturating at
// PriceCapMultiple times the threshold. Missing price data scores 0.0.
func (d *Detector) PriceMovementScore(tx models.Transaction, prices models.PriceSeries) float64 {
	if prices.Empty() {
		return 0.0
	}

	at, ok := prices.At(tx.TransactionDate, d.params.PriceSlipDays)
	if !ok || at.Close <= 0 {
		return 0.0
	}

	windowEnd := tx.TransactionDate.AddDate(0, 0, d.params.TimingWindowDays)
	later := prices.Between(at.Date, windowEnd)
	if len(later) == 0 {
		return 0.0
	}
	end := later[len(later)-1]

	change := (end.Close - at.Close) / at.Close
	favorable := change
	if tx.Direction == models.DirectionSale {
		favorable = -change
	}
	return d.mapPriceChange(favorable)
}

func (d *Detector) mapPriceChange(favorable float64) float64 {
	if favorable <= 0 {
		return 0.0
	}
	thr := d.params.SignificantPriceChange
	cap := thr * d.params.PriceCapMultiple
	at := d.params.AtThresholdScore

	switch {
	case favorable < thr:
		return clamp01(at * favorable / thr)
	case favorable >= cap:
		return 1.0
	default:
		return clamp01(at + (1.0-at)*(favorable-thr)/(cap-thr))
	}
}
