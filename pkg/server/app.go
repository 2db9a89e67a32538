// Package server ties the pipeline, storage and HTTP surface into one
// application lifecycle.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	domrepo "github.com/ybird-labs/senate-insight-lab/internal/domain/repository"
	"github.com/ybird-labs/senate-insight-lab/internal/usecase"
	"github.com/ybird-labs/senate-insight-lab/pkg/cache"
	"github.com/ybird-labs/senate-insight-lab/pkg/config"
	xhttp "github.com/ybird-labs/senate-insight-lab/pkg/http"
	applogger "github.com/ybird-labs/senate-insight-lab/pkg/logger"
)

// App encapsulates the application commands and lifecycle.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	pipeline  *usecase.Pipeline
	congress  domrepo.CongressData
	store     domrepo.AlertStore     // nil when ClickHouse is not configured
	publisher domrepo.AlertPublisher // nil when Kafka is not configured
	cache     cache.Service
	handler   xhttp.Handler
}

// New creates an App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	pipeline *usecase.Pipeline,
	congress domrepo.CongressData,
	store domrepo.AlertStore,
	publisher domrepo.AlertPublisher,
	c cache.Service,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		pipeline:  pipeline,
		congress:  congress,
		store:     store,
		publisher: publisher,
		cache:     c,
		handler:   handler,
	}
}

// Logger exposes the application logger.
func (a *App) Logger() *applogger.Logger { return a.log }

// InitDB creates the storage schema.
func (a *App) InitDB(ctx context.Context) error {
	if a.store == nil {
		return fmt.Errorf("storage not configured: set clickhouse.host")
	}
	if err := a.store.Init(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	a.log.Info("storage schema ready", applogger.String("database", a.cfg.ClickHouse.Database))
	return nil
}

// Members resolves the member roster for a chamber selector
// ("senate", "house" or "both").
func (a *App) Members(ctx context.Context, chamber string) ([]models.Member, error) {
	var chambers []models.Chamber
	switch strings.ToLower(chamber) {
	case "senate":
		chambers = []models.Chamber{models.ChamberSenate}
	case "house":
		chambers = []models.Chamber{models.ChamberHouse}
	case "both", "":
		chambers = []models.Chamber{models.ChamberSenate, models.ChamberHouse}
	default:
		return nil, fmt.Errorf("unknown chamber %q (want senate, house or both)", chamber)
	}

	var members []models.Member
	for _, ch := range chambers {
		ms, err := a.congress.CurrentMembers(ctx, ch)
		if err != nil {
			return nil, fmt.Errorf("fetch %s members: %w", ch, err)
		}
		members = append(members, ms...)
	}
	return members, nil
}

// CollectMembers fetches the roster and persists it.
func (a *App) CollectMembers(ctx context.Context, chamber string) (int, error) {
	members, err := a.Members(ctx, chamber)
	if err != nil {
		return 0, err
	}
	if a.store != nil {
		if err := a.store.SaveMembers(ctx, members); err != nil {
			return 0, fmt.Errorf("save members: %w", err)
		}
	}
	a.log.Info("members collected",
		applogger.String("chamber", chamber), applogger.Int("count", len(members)))
	return len(members), nil
}

// AnalyzeMember runs the scoring pipeline for a single member.
func (a *App) AnalyzeMember(ctx context.Context, memberID string) ([]models.Alert, error) {
	return a.pipeline.AnalyzeMember(ctx, models.Member{MemberID: memberID})
}

// AnalyzeAll runs the batch pipeline over a chamber's roster.
func (a *App) AnalyzeAll(ctx context.Context, chamber string) (*usecase.RunResult, error) {
	members, err := a.Members(ctx, chamber)
	if err != nil {
		return nil, err
	}
	return a.pipeline.Run(ctx, members)
}

// Report queries stored alerts and writes them in the requested format.
func (a *App) Report(ctx context.Context, format usecase.ReportFormat, top int, w io.Writer) error {
	if a.store == nil {
		return fmt.Errorf("storage not configured: set clickhouse.host")
	}
	alerts, err := a.store.Alerts(ctx, domrepo.AlertFilter{})
	if err != nil {
		return fmt.Errorf("query alerts: %w", err)
	}

	switch format {
	case usecase.FormatJSON:
		return usecase.WriteAlertsJSON(w, alerts)
	case usecase.FormatCSV:
		return usecase.WriteAlertsCSV(w, alerts)
	default:
		return usecase.WriteSummaryText(w, usecase.Summarize(alerts, top))
	}
}

// Serve runs the HTTP API until interrupted.
func (a *App) Serve(ctx context.Context) error {
	if a.store == nil {
		return fmt.Errorf("serving requires storage: set clickhouse.host")
	}

	srv := xhttp.NewServer(a.handler, a.log,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := srv.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
		a.log.Info("shutdown signal received")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

// Close releases infrastructure clients.
func (a *App) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("store close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}
}
