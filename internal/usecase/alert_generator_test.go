package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybird-labs/senate-insight-lab/internal/analysis"
	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
)

func newTestGenerator(t *testing.T) *AlertGenerator {
	t.Helper()
	d, err := analysis.NewDetector(analysis.DefaultParams(), analysis.DefaultIndustryMap())
	require.NoError(t, err)
	g := NewAlertGenerator(d)
	g.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return g
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func techMember() models.Member {
	return models.Member{MemberID: "S001", Name: "Jordan Blake", Chamber: models.ChamberSenate, State: "CA", Party: "D"}
}

func techContext(txs ...models.Transaction) MemberContext {
	return MemberContext{
		Member:       techMember(),
		Transactions: txs,
		Actions: []models.LegislativeAction{{
			ActionID:   "a-1",
			BillTitle:  "Artificial Intelligence Oversight Act",
			ActionDate: date(2023, time.September, 20),
		}},
		Assignments: []models.CommitteeAssignment{{
			MemberID:      "S001",
			CommitteeName: "Committee on Technology",
			StartDate:     date(2021, time.January, 3),
		}},
	}
}

func purchase(id, ticker string, txDate time.Time) models.Transaction {
	return models.Transaction{
		TransactionID:   id,
		MemberID:        "S001",
		Ticker:          ticker,
		Direction:       models.DirectionPurchase,
		TransactionDate: txDate,
		DisclosureDate:  txDate.AddDate(0, 0, 14),
	}
}

func TestGenerateEmptyTransactions(t *testing.T) {
	g := newTestGenerator(t)
	alerts := g.Generate(MemberContext{Member: techMember()})
	require.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestGenerateSuppressesBelowThreshold(t *testing.T) {
	g := newTestGenerator(t)
	// committee correlation alone: 0.25 < 0.3 threshold
	mc := techContext(purchase("tx-1", "GOOGL", date(2023, time.September, 15)))
	mc.Actions = nil
	alerts := g.Generate(mc)
	assert.Empty(t, alerts)
}

func TestGenerateEmitsAboveThreshold(t *testing.T) {
	g := newTestGenerator(t)
	mc := techContext(purchase("tx-1", "GOOGL", date(2023, time.September, 15)))

	alerts := g.Generate(mc)
	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, "S001", a.MemberID)
	assert.Equal(t, "tx-1", a.TransactionID)
	assert.Equal(t, 1.0, a.Scores.Timing)
	assert.Equal(t, 1.0, a.Scores.Committee)
	assert.InDelta(t, 0.55, a.Confidence, 1e-9)
	assert.Equal(t, models.SeverityMedium, a.Severity)
	assert.Contains(t, a.Description, "Jordan Blake")
	assert.Contains(t, a.Description, "GOOGL")
}

func TestGenerateDeduplicatesIdenticalDisclosures(t *testing.T) {
	g := newTestGenerator(t)
	txDate := date(2023, time.September, 15)
	// same (member, ticker, date, direction) filed twice under different IDs
	mc := techContext(
		purchase("tx-1", "GOOGL", txDate),
		purchase("tx-2", "GOOGL", txDate),
	)
	alerts := g.Generate(mc)
	require.Len(t, alerts, 1)
	assert.Equal(t, "tx-1", alerts[0].TransactionID, "first record wins")
}

func TestGenerateOrdering(t *testing.T) {
	g := newTestGenerator(t)
	// GOOGL purchases score timing+committee; XOM gets neither signal and is
	// suppressed; two GOOGL purchases tie on confidence and sort by date
	mc := techContext(
		purchase("older", "GOOGL", date(2023, time.September, 12)),
		purchase("newer", "GOOGL", date(2023, time.September, 15)),
		purchase("oil", "XOM", date(2023, time.September, 14)),
	)

	alerts := g.Generate(mc)
	require.Len(t, alerts, 2)
	assert.Equal(t, alerts[0].Confidence, alerts[1].Confidence)
	assert.Equal(t, "newer", alerts[0].TransactionID, "ties break by most recent date")
	assert.Equal(t, "older", alerts[1].TransactionID)

	for i := 1; i < len(alerts); i++ {
		assert.GreaterOrEqual(t, alerts[i-1].Confidence, alerts[i].Confidence)
	}
}

func TestGenerateDeterministicAlertIDs(t *testing.T) {
	g := newTestGenerator(t)
	mc := techContext(purchase("tx-1", "GOOGL", date(2023, time.September, 15)))

	first := g.Generate(mc)
	second := g.Generate(mc)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0], second[0], "re-scoring the same context yields an identical alert")
}

func TestGenerateSkipsMalformedTransactions(t *testing.T) {
	g := newTestGenerator(t)
	bad := purchase("tx-bad", "", date(2023, time.September, 15)) // no ticker
	mc := techContext(bad)
	assert.Empty(t, g.Generate(mc))
}

func TestConfidenceEqualsWeightedSum(t *testing.T) {
	g := newTestGenerator(t)
	mc := techContext(purchase("tx-1", "GOOGL", date(2023, time.September, 15)))
	alerts := g.Generate(mc)
	require.Len(t, alerts, 1)

	a := alerts[0]
	w := analysis.DefaultWeights()
	want := a.Scores.Timing*w.Timing + a.Scores.Committee*w.Committee +
		a.Scores.Price*w.Price + a.Scores.Volume*w.Volume
	assert.InDelta(t, want, a.Confidence, 1e-9)
}
