package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	"github.com/ybird-labs/senate-insight-lab/internal/domain/repository"
	"github.com/ybird-labs/senate-insight-lab/pkg/logger"
)

// fakeProviders backs all three data interfaces with canned responses so
// pipeline behavior can be exercised without network I/O.
type fakeProviders struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	calls       int

	txs         map[string][]models.Transaction
	actions     []models.LegislativeAction
	assignments []models.CommitteeAssignment
	failSource  map[string]string // memberID -> provider that errors
	delay       time.Duration
	onRetrieval func(call int)
}

func (f *fakeProviders) enter() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	return f.calls
}

func (f *fakeProviders) leave() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeProviders) CurrentMembers(ctx context.Context, chamber models.Chamber) ([]models.Member, error) {
	return nil, nil
}

func (f *fakeProviders) MemberTransactions(ctx context.Context, memberID string, since time.Time) ([]models.Transaction, error) {
	call := f.enter()
	defer f.leave()
	if f.onRetrieval != nil {
		f.onRetrieval(call)
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failSource[memberID] == "disclosure" {
		return nil, errors.New("disclosure feed returned 502")
	}
	return f.txs[memberID], nil
}

func (f *fakeProviders) MemberActions(ctx context.Context, memberID string, since time.Time) ([]models.LegislativeAction, error) {
	if f.failSource[memberID] == "congress" {
		return nil, errors.New("congress API timeout")
	}
	return f.actions, nil
}

func (f *fakeProviders) MemberCommittees(ctx context.Context, memberID string) ([]models.CommitteeAssignment, error) {
	return f.assignments, nil
}

func (f *fakeProviders) DailySeries(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error) {
	return models.PriceSeries{}, models.ErrDataUnavailable
}

type nopMetrics struct{}

func (nopMetrics) RecordMemberProcessed()        {}
func (nopMetrics) RecordMemberFailed(string)     {}
func (nopMetrics) RecordAlert(string)            {}
func (nopMetrics) RecordProviderRequest(string)  {}
func (nopMetrics) RecordLatency(string, float64) {}

type recordingSink struct {
	mu     sync.Mutex
	saved  []models.Alert
	pushed []models.Alert
}

func (r *recordingSink) Init(ctx context.Context) error { return nil }

func (r *recordingSink) SaveMembers(ctx context.Context, m []models.Member) error { return nil }

func (r *recordingSink) SaveTransactions(ctx context.Context, t []models.Transaction) error {
	return nil
}
func (r *recordingSink) SaveAlerts(ctx context.Context, alerts []models.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, alerts...)
	return nil
}
func (r *recordingSink) Alerts(ctx context.Context, f repository.AlertFilter) ([]models.Alert, error) {
	return nil, nil
}
func (r *recordingSink) Health(ctx context.Context) error { return nil }
func (r *recordingSink) Close() error                     { return nil }

func (r *recordingSink) PublishAlerts(ctx context.Context, alerts []models.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushed = append(r.pushed, alerts...)
	return nil
}

func members(ids ...string) []models.Member {
	ms := make([]models.Member, 0, len(ids))
	for _, id := range ids {
		ms = append(ms, models.Member{MemberID: id, Name: "Member " + id, Chamber: models.ChamberSenate})
	}
	return ms
}

func flaggableProviders() *fakeProviders {
	mc := techContext(purchase("tx-1", "GOOGL", date(2023, time.September, 15)))
	return &fakeProviders{
		txs:         map[string][]models.Transaction{"S001": mc.Transactions},
		actions:     mc.Actions,
		assignments: mc.Assignments,
		failSource:  map[string]string{},
	}
}

func newTestPipeline(t *testing.T, f *fakeProviders, opts ...PipelineOption) *Pipeline {
	t.Helper()
	g := newTestGenerator(t)
	base := []PipelineOption{WithRequestDelay(0)}
	return NewPipeline(f, f, f, g, nopMetrics{}, logger.Nop(), append(base, opts...)...)
}

func TestRunCollectsAlerts(t *testing.T) {
	f := flaggableProviders()
	p := newTestPipeline(t, f)

	res, err := p.Run(context.Background(), members("S001", "S002", "S003"))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 3, res.Summary.MembersProcessed)
	assert.Zero(t, res.Summary.MembersFailed)
	require.Len(t, res.Alerts, 1)
	assert.Equal(t, "S001", res.Alerts[0].MemberID)
	assert.Equal(t, 1, res.Summary.AlertsByMember["S001"])
}

func TestRunIsolatesMemberFailures(t *testing.T) {
	f := flaggableProviders()
	f.failSource["S002"] = "disclosure"
	f.failSource["S003"] = "congress"
	f.txs["S003"] = f.txs["S001"] // S003 has trades but its congress lookup fails

	p := newTestPipeline(t, f)
	res, err := p.Run(context.Background(), members("S001", "S002", "S003"))
	require.NoError(t, err, "a failing member must not fail the run")

	assert.Equal(t, 1, res.Summary.MembersProcessed)
	assert.Equal(t, 2, res.Summary.MembersFailed)
	require.Len(t, res.Summary.Failures, 2)
	require.Len(t, res.Alerts, 1)
	assert.Equal(t, "S001", res.Alerts[0].MemberID)
}

func TestRunRespectsConcurrencyBound(t *testing.T) {
	f := flaggableProviders()
	f.delay = 20 * time.Millisecond

	p := newTestPipeline(t, f, WithConcurrency(2))
	_, err := p.Run(context.Background(), members("S001", "S002", "S003", "S004", "S005", "S006"))
	require.NoError(t, err)
	assert.LessOrEqual(t, f.maxInFlight, 2)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	f := flaggableProviders()
	p := newTestPipeline(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := p.Run(ctx, members("S001", "S002"))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Zero(t, res.Summary.MembersProcessed)
	assert.Zero(t, res.Summary.MembersFailed)
	assert.Empty(t, res.Alerts)
}

func TestRunCancellationKeepsCollectedAlerts(t *testing.T) {
	f := flaggableProviders()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.onRetrieval = func(call int) {
		if call == 3 {
			cancel()
		}
	}

	// serialized so exactly two members complete before the cancel lands
	p := newTestPipeline(t, f, WithConcurrency(1))
	res, err := p.Run(ctx, members("S001", "S002", "S003", "S004", "S005"))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Summary.MembersProcessed)
	assert.Zero(t, res.Summary.MembersFailed, "cancellation is not a member failure")
	require.Len(t, res.Alerts, 1)
}

func TestRunSinksAlerts(t *testing.T) {
	f := flaggableProviders()
	sink := &recordingSink{}
	p := newTestPipeline(t, f, WithStore(sink), WithPublisher(sink))

	res, err := p.Run(context.Background(), members("S001"))
	require.NoError(t, err)
	require.Len(t, res.Alerts, 1)
	assert.Equal(t, res.Alerts, sink.saved)
	assert.Equal(t, res.Alerts, sink.pushed)
}

func TestAnalyzeMemberNoTransactions(t *testing.T) {
	f := flaggableProviders()
	p := newTestPipeline(t, f)

	alerts, err := p.AnalyzeMember(context.Background(), models.Member{MemberID: "S099"})
	require.NoError(t, err)
	require.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestAnalyzeMemberWrapsRetrievalErrors(t *testing.T) {
	f := flaggableProviders()
	f.failSource["S001"] = "disclosure"
	p := newTestPipeline(t, f)

	_, err := p.AnalyzeMember(context.Background(), models.Member{MemberID: "S001"})
	require.Error(t, err)

	var re *models.RetrievalError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "S001", re.MemberID)
	assert.Equal(t, "disclosure", re.Source)
}

func TestSummarize(t *testing.T) {
	alerts := []models.Alert{
		{MemberID: "S001", Confidence: 0.8, Severity: models.SeverityHigh},
		{MemberID: "S001", Confidence: 0.55, Severity: models.SeverityMedium},
		{MemberID: "S002", Confidence: 0.35, Severity: models.SeverityLow},
	}

	s := Summarize(alerts, 2)
	assert.Equal(t, 3, s.AlertsGenerated)
	assert.Equal(t, 1, s.AlertsByTier[models.SeverityHigh])
	assert.Equal(t, 1, s.AlertsByTier[models.SeverityMedium])
	assert.Equal(t, 1, s.AlertsByTier[models.SeverityLow])
	assert.Equal(t, 2, s.AlertsByMember["S001"])
	require.Len(t, s.TopAlerts, 2)
	assert.Equal(t, 0.8, s.TopAlerts[0].Confidence)
	assert.Equal(t, 0.55, s.TopAlerts[1].Confidence)
}
