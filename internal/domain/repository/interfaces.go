package repository

import (
	"context"
	"time"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
)

// CongressData retrieves legislative records for members. Implementations
// perform network I/O and must honor ctx cancellation.
type CongressData interface {
	CurrentMembers(ctx context.Context, chamber models.Chamber) ([]models.Member, error)
	MemberActions(ctx context.Context, memberID string, since time.Time) ([]models.LegislativeAction, error)
	MemberCommittees(ctx context.Context, memberID string) ([]models.CommitteeAssignment, error)
}

// DisclosureData retrieves financial-disclosure transactions. Records are
// normalized and validated before they are returned.
type DisclosureData interface {
	MemberTransactions(ctx context.Context, memberID string, since time.Time) ([]models.Transaction, error)
}

// MarketData retrieves daily price/volume history for a ticker.
// A ticker without history returns models.ErrDataUnavailable.
type MarketData interface {
	DailySeries(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error)
}

// AlertFilter narrows alert queries.
type AlertFilter struct {
	MemberID      string
	Severity      models.Severity
	MinConfidence float64
	Limit         int
}

// AlertStore persists members, transactions and generated alerts.
type AlertStore interface {
	Init(ctx context.Context) error
	SaveMembers(ctx context.Context, members []models.Member) error
	SaveTransactions(ctx context.Context, txs []models.Transaction) error
	SaveAlerts(ctx context.Context, alerts []models.Alert) error
	Alerts(ctx context.Context, filter AlertFilter) ([]models.Alert, error)
	Health(ctx context.Context) error
	Close() error
}

// AlertPublisher pushes generated alerts to downstream consumers.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, alerts []models.Alert) error
	Close() error
}

// Metrics records pipeline observability counters.
type Metrics interface {
	RecordMemberProcessed()
	RecordMemberFailed(source string)
	RecordAlert(tier string)
	RecordProviderRequest(provider string)
	RecordLatency(op string, seconds float64)
}
