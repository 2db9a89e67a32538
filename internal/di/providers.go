package di

import (
	"fmt"

	"github.com/ybird-labs/senate-insight-lab/internal/analysis"
	domrepo "github.com/ybird-labs/senate-insight-lab/internal/domain/repository"
	"github.com/ybird-labs/senate-insight-lab/internal/handler/api"
	internalrepo "github.com/ybird-labs/senate-insight-lab/internal/repository"
	"github.com/ybird-labs/senate-insight-lab/internal/service/congress"
	"github.com/ybird-labs/senate-insight-lab/internal/service/disclosure"
	"github.com/ybird-labs/senate-insight-lab/internal/service/marketdata"
	"github.com/ybird-labs/senate-insight-lab/internal/service/ratelimit"
	"github.com/ybird-labs/senate-insight-lab/internal/usecase"
	"github.com/ybird-labs/senate-insight-lab/pkg/cache"
	pkgch "github.com/ybird-labs/senate-insight-lab/pkg/clickhouse"
	"github.com/ybird-labs/senate-insight-lab/pkg/config"
	xhttp "github.com/ybird-labs/senate-insight-lab/pkg/http"
	pkgkafka "github.com/ybird-labs/senate-insight-lab/pkg/kafka"
	applogger "github.com/ybird-labs/senate-insight-lab/pkg/logger"
	"github.com/ybird-labs/senate-insight-lab/pkg/metrics"
	"github.com/ybird-labs/senate-insight-lab/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideCache creates the provider-response cache. Redis when configured,
// in-process otherwise.
func ProvideCache(cfg *config.Config, log *applogger.Logger) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	c, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	log.Info("redis cache connected", applogger.String("host", cfg.Redis.Host))
	return c, nil
}

// ProvideLimiter creates the shared per-provider rate limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideCongressData creates the Congress.gov client.
func ProvideCongressData(cfg *config.Config, lim *ratelimit.Limiter, c cache.Service, log *applogger.Logger) domrepo.CongressData {
	return congress.New(cfg.Congress.APIKey, cfg.Congress.BaseURL, cfg.Congress.Timeout, lim, c, log)
}

// ProvideDisclosureData creates the disclosure-portal client.
func ProvideDisclosureData(cfg *config.Config, lim *ratelimit.Limiter, log *applogger.Logger) domrepo.DisclosureData {
	return disclosure.New(cfg.Disclosure.BaseURL, cfg.Disclosure.Timeout, lim, log)
}

// ProvideMarketData creates the Alpha Vantage client.
func ProvideMarketData(cfg *config.Config, lim *ratelimit.Limiter, c cache.Service, log *applogger.Logger) domrepo.MarketData {
	return marketdata.New(cfg.MarketData.APIKey, cfg.MarketData.BaseURL,
		cfg.MarketData.Timeout, cfg.MarketData.CacheTTL, lim, c, log)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideDetector builds the scoring detector from configuration.
func ProvideDetector(cfg *config.Config) (*analysis.Detector, error) {
	return analysis.NewDetector(analysis.ParamsFromConfig(cfg), analysis.DefaultIndustryMap())
}

// ProvideAlertGenerator creates the alert generator.
func ProvideAlertGenerator(d *analysis.Detector) *usecase.AlertGenerator {
	return usecase.NewAlertGenerator(d)
}

// ProvideAlertStore creates the ClickHouse alert store, or nil when no
// ClickHouse host is configured (pure report-to-stdout runs).
func ProvideAlertStore(cfg *config.Config, log *applogger.Logger) (domrepo.AlertStore, error) {
	if cfg.ClickHouse.Host == "" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return internalrepo.NewCHAlertStore(client, log), nil
}

// ProvideAlertPublisher creates the Kafka publisher, or nil when disabled.
func ProvideAlertPublisher(cfg *config.Config, log *applogger.Logger) (domrepo.AlertPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertsTopic, log), nil
}

// ProvidePipeline assembles the analysis pipeline.
func ProvidePipeline(
	cfg *config.Config,
	congress domrepo.CongressData,
	disclosures domrepo.DisclosureData,
	market domrepo.MarketData,
	generator *usecase.AlertGenerator,
	m domrepo.Metrics,
	log *applogger.Logger,
	store domrepo.AlertStore,
	publisher domrepo.AlertPublisher,
) *usecase.Pipeline {
	opts := []usecase.PipelineOption{
		usecase.WithConcurrency(cfg.Analysis.MaxConcurrentRequests),
		usecase.WithRequestDelay(cfg.RequestDelay()),
	}
	if store != nil {
		opts = append(opts, usecase.WithStore(store))
	}
	if publisher != nil {
		opts = append(opts, usecase.WithPublisher(publisher))
	}
	return usecase.NewPipeline(congress, disclosures, market, generator, m, log, opts...)
}

// ProvideHandler creates the HTTP API handler. Nil without storage; the
// serve command rejects that configuration before it matters.
func ProvideHandler(log *applogger.Logger, store domrepo.AlertStore) xhttp.Handler {
	if store == nil {
		return nil
	}
	return api.NewAlertsHandler(log, store)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	pipeline *usecase.Pipeline,
	congress domrepo.CongressData,
	store domrepo.AlertStore,
	publisher domrepo.AlertPublisher,
	c cache.Service,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, log, pipeline, congress, store, publisher, c, handler)
}
