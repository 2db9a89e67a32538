package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	"github.com/ybird-labs/senate-insight-lab/internal/domain/repository"
	"github.com/ybird-labs/senate-insight-lab/pkg/logger"
)

// Pipeline drives the alert generator across many members: per-member data
// retrieval through the external providers, scoring, and aggregation of the
// resulting alerts. Retrieval failures are isolated per member; cancelling
// the context stops dispatching new members but keeps everything already
// collected.
type Pipeline struct {
	congress    repository.CongressData
	disclosures repository.DisclosureData
	market      repository.MarketData
	generator   *AlertGenerator
	metrics     repository.Metrics
	log         *logger.Logger

	store     repository.AlertStore     // optional
	publisher repository.AlertPublisher // optional

	maxConcurrent int
	limiter       *rate.Limiter
	lookback      time.Duration
	topN          int
}

// PipelineOption configures Pipeline.
type PipelineOption func(*Pipeline)

// WithConcurrency bounds the number of in-flight member pipelines.
func WithConcurrency(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxConcurrent = n
		}
	}
}

// WithRequestDelay sets the minimum delay between member dispatches,
// backpressure for upstream API rate limits.
func WithRequestDelay(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if d > 0 {
			p.limiter = rate.NewLimiter(rate.Every(d), 1)
		} else {
			p.limiter = rate.NewLimiter(rate.Inf, 1)
		}
	}
}

// WithLookback sets how far back legislative and disclosure history is pulled.
func WithLookback(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if d > 0 {
			p.lookback = d
		}
	}
}

// WithStore persists generated alerts after each run.
func WithStore(store repository.AlertStore) PipelineOption {
	return func(p *Pipeline) { p.store = store }
}

// WithPublisher forwards generated alerts to a downstream sink.
func WithPublisher(pub repository.AlertPublisher) PipelineOption {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithTopN sets how many alerts the summary report keeps.
func WithTopN(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.topN = n
		}
	}
}

// NewPipeline assembles the orchestrator.
func NewPipeline(
	congress repository.CongressData,
	disclosures repository.DisclosureData,
	market repository.MarketData,
	generator *AlertGenerator,
	metrics repository.Metrics,
	log *logger.Logger,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		congress:      congress,
		disclosures:   disclosures,
		market:        market,
		generator:     generator,
		metrics:       metrics,
		log:           log,
		maxConcurrent: 5,
		limiter:       rate.NewLimiter(rate.Every(time.Second), 1),
		lookback:      365 * 24 * time.Hour,
		topN:          10,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunResult is the outcome of one batch run.
type RunResult struct {
	Alerts  []models.Alert
	Summary models.RunSummary
}

// Run analyzes the given members under the concurrency budget and returns
// all generated alerts plus summary statistics. A single member's retrieval
// failure is logged, counted, and excluded; it never fails the run.
func (p *Pipeline) Run(ctx context.Context, members []models.Member) (*RunResult, error) {
	started := time.Now()

	var (
		mu        sync.Mutex
		alerts    []models.Alert
		failures  []string
		processed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)

dispatch:
	for _, member := range members {
		if err := p.limiter.Wait(ctx); err != nil {
			break dispatch // cancelled while pacing; keep what we have
		}
		member := member
		g.Go(func() error {
			memberAlerts, err := p.AnalyzeMember(gctx, member)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				failures = append(failures, err.Error())
				p.metrics.RecordMemberFailed(retrievalSource(err))
				p.log.Error("member analysis failed",
					logger.String("member_id", member.MemberID), logger.Error(err))
				return nil
			}
			processed++
			alerts = append(alerts, memberAlerts...)
			p.metrics.RecordMemberProcessed()
			p.log.Info("member processed",
				logger.String("member_id", member.MemberID),
				logger.Int("alerts", len(memberAlerts)))
			return nil
		})
	}
	_ = g.Wait() // member errors are collected, never propagated

	sortAlerts(alerts)
	summary := Summarize(alerts, p.topN)
	summary.StartedAt = started
	summary.FinishedAt = time.Now()
	summary.MembersProcessed = processed
	summary.MembersFailed = len(failures)
	summary.Failures = failures

	if err := p.sink(ctx, alerts); err != nil {
		p.log.Error("alert sink failed", logger.Error(err))
	}

	return &RunResult{Alerts: alerts, Summary: summary}, nil
}

// AnalyzeMember retrieves one member's context and generates its alerts.
func (p *Pipeline) AnalyzeMember(ctx context.Context, member models.Member) ([]models.Alert, error) {
	start := time.Now()
	since := time.Now().Add(-p.lookback)

	p.metrics.RecordProviderRequest("disclosure")
	txs, err := p.disclosures.MemberTransactions(ctx, member.MemberID, since)
	if err != nil {
		return nil, models.NewRetrievalError(member.MemberID, "disclosure", err)
	}
	if len(txs) == 0 {
		return []models.Alert{}, nil
	}

	p.metrics.RecordProviderRequest("congress")
	actions, err := p.congress.MemberActions(ctx, member.MemberID, since)
	if err != nil {
		return nil, models.NewRetrievalError(member.MemberID, "congress", err)
	}
	assignments, err := p.congress.MemberCommittees(ctx, member.MemberID)
	if err != nil {
		return nil, models.NewRetrievalError(member.MemberID, "congress", err)
	}

	if p.store != nil {
		if err := p.store.SaveTransactions(ctx, txs); err != nil {
			p.log.Warn("persist transactions failed",
				logger.String("member_id", member.MemberID), logger.Error(err))
		}
	}

	prices := p.fetchPrices(ctx, txs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	alerts := p.generator.Generate(MemberContext{
		Member:       member,
		Transactions: txs,
		Actions:      actions,
		Assignments:  assignments,
		Prices:       prices,
	})
	for _, a := range alerts {
		p.metrics.RecordAlert(string(a.Severity))
	}
	p.metrics.RecordLatency("analyze_member", time.Since(start).Seconds())
	return alerts, nil
}

// fetchPrices pulls a daily series per distinct ticker. A ticker whose
// history cannot be retrieved is simply absent from the result: the price
// and volume scorers treat it as missing evidence.
func (p *Pipeline) fetchPrices(ctx context.Context, txs []models.Transaction) map[string]models.PriceSeries {
	earliest, latest := txs[0].TransactionDate, txs[0].TransactionDate
	tickers := make(map[string]struct{})
	for _, tx := range txs {
		tickers[tx.Ticker] = struct{}{}
		if tx.TransactionDate.Before(earliest) {
			earliest = tx.TransactionDate
		}
		if tx.TransactionDate.After(latest) {
			latest = tx.TransactionDate
		}
	}
	// margin for the volume baseline before and the price window after
	from := earliest.AddDate(0, 0, -60)
	to := latest.AddDate(0, 0, 40)

	prices := make(map[string]models.PriceSeries, len(tickers))
	for ticker := range tickers {
		if ctx.Err() != nil {
			return prices
		}
		p.metrics.RecordProviderRequest("marketdata")
		series, err := p.market.DailySeries(ctx, ticker, from, to)
		if err != nil {
			if !errors.Is(err, models.ErrDataUnavailable) {
				p.log.Warn("price history unavailable",
					logger.String("ticker", ticker), logger.Error(err))
			}
			continue
		}
		prices[ticker] = series
	}
	return prices
}

func (p *Pipeline) sink(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	if p.store != nil {
		if err := p.store.SaveAlerts(ctx, alerts); err != nil {
			return err
		}
	}
	if p.publisher != nil {
		if err := p.publisher.PublishAlerts(ctx, alerts); err != nil {
			return err
		}
	}
	return nil
}

func sortAlerts(alerts []models.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Confidence != alerts[j].Confidence {
			return alerts[i].Confidence > alerts[j].Confidence
		}
		return alerts[i].TransactionDate.After(alerts[j].TransactionDate)
	})
}

func retrievalSource(err error) string {
	var re *models.RetrievalError
	if errors.As(err, &re) {
		return re.Source
	}
	return "unknown"
}

// Summarize computes tier counts, per-member counts and the top alerts.
// Pure post-processing over an already-scored alert collection.
func Summarize(alerts []models.Alert, topN int) models.RunSummary {
	s := models.RunSummary{
		AlertsGenerated: len(alerts),
		AlertsByTier:    make(map[models.Severity]int),
		AlertsByMember:  make(map[string]int),
	}
	for _, a := range alerts {
		s.AlertsByTier[a.Severity]++
		s.AlertsByMember[a.MemberID]++
	}
	sorted := make([]models.Alert, len(alerts))
	copy(sorted, alerts)
	sortAlerts(sorted)
	if topN > len(sorted) {
		topN = len(sorted)
	}
	s.TopAlerts = sorted[:topN]
	return s
}
