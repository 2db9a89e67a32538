package usecase

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ybird-labs/senate-insight-lab/internal/analysis"
	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
)

// alertNamespace makes alert IDs a pure function of the transaction they
// flag, so re-running an analysis produces the same identifiers.
var alertNamespace = uuid.MustParse("8b0f4a52-9c1e-4f7d-b1ce-6a52f0e0a9d4")

// AlertGenerator evaluates every transaction of one member against the
// member's legislative, committee and market context.
type AlertGenerator struct {
	detector *analysis.Detector
	now      func() time.Time
}

// NewAlertGenerator creates a generator around a validated detector.
func NewAlertGenerator(detector *analysis.Detector) *AlertGenerator {
	return &AlertGenerator{detector: detector, now: time.Now}
}

// MemberContext bundles everything the generator needs for one member.
type MemberContext struct {
	Member      models.Member
	Transactions []models.Transaction
	Actions     []models.LegislativeAction
	Assignments []models.CommitteeAssignment
	Prices      map[string]models.PriceSeries // keyed by ticker
}

// Generate scores the member's transactions and returns the alerts that
// clear the minimum confidence threshold, sorted by descending confidence
// with ties broken by most recent transaction date. Identical disclosures
// (same member, ticker, date, direction) are scored once. The result is
// never nil.
func (g *AlertGenerator) Generate(mc MemberContext) []models.Alert {
	alerts := make([]models.Alert, 0, len(mc.Transactions))
	seen := make(map[string]struct{}, len(mc.Transactions))

	for _, tx := range mc.Transactions {
		if err := tx.Validate(); err != nil {
			continue // providers already drop malformed records
		}
		key := tx.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		scores := g.detector.Score(tx, mc.Actions, mc.Assignments, mc.Prices[tx.Ticker])
		confidence := g.detector.Aggregate(scores)
		severity, ok := g.detector.Severity(confidence)
		if !ok {
			continue
		}

		alerts = append(alerts, models.Alert{
			AlertID:         uuid.NewSHA1(alertNamespace, []byte(key)).String(),
			MemberID:        tx.MemberID,
			TransactionID:   tx.TransactionID,
			Ticker:          tx.Ticker,
			TransactionDate: tx.TransactionDate,
			Scores:          scores,
			Confidence:      confidence,
			Severity:        severity,
			Description:     describe(mc.Member, tx, scores, confidence),
			CreatedAt:       g.now(),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Confidence != alerts[j].Confidence {
			return alerts[i].Confidence > alerts[j].Confidence
		}
		return alerts[i].TransactionDate.After(alerts[j].TransactionDate)
	})
	return alerts
}

func describe(m models.Member, tx models.Transaction, s models.SignalScores, confidence float64) string {
	name := m.Name
	if name == "" {
		name = tx.MemberID
	}
	return fmt.Sprintf(
		"%s %s of %s on %s, confidence %.2f (timing %.2f, committee %.2f, price %.2f, volume %.2f)",
		name, tx.Direction, tx.Ticker, tx.TransactionDate.Format("2006-01-02"),
		confidence, s.Timing, s.Committee, s.Price, s.Volume,
	)
}
