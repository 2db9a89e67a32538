package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	domrepo "github.com/ybird-labs/senate-insight-lab/internal/domain/repository"
	pkgch "github.com/ybird-labs/senate-insight-lab/pkg/clickhouse"
	applogger "github.com/ybird-labs/senate-insight-lab/pkg/logger"
)

// CHAlertStore implements AlertStore backed by ClickHouse.
type CHAlertStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

// NewCHAlertStore creates the ClickHouse-backed alert store.
func NewCHAlertStore(ch *pkgch.Client, l *applogger.Logger) *CHAlertStore {
	return &CHAlertStore{ch: ch, db: ch.DB(), l: l}
}

var _ domrepo.AlertStore = (*CHAlertStore)(nil)

// ReplacingMergeTree keyed on the deterministic alert id makes repeated
// analysis runs idempotent at the storage layer as well.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS members (
		member_id String,
		name      String,
		chamber   LowCardinality(String),
		state     LowCardinality(String),
		district  String,
		party     LowCardinality(String)
	) ENGINE = ReplacingMergeTree
	ORDER BY member_id`,

	`CREATE TABLE IF NOT EXISTS transactions (
		transaction_id   String,
		member_id        String,
		ticker           LowCardinality(String),
		company_name     String,
		direction        LowCardinality(String),
		transaction_date Date,
		disclosure_date  Date,
		amount_range     String,
		min_amount       Float64,
		max_amount       Float64,
		owner            LowCardinality(String)
	) ENGINE = ReplacingMergeTree
	ORDER BY (member_id, ticker, transaction_date, direction)`,

	`CREATE TABLE IF NOT EXISTS alerts (
		alert_id         String,
		member_id        String,
		transaction_id   String,
		ticker           LowCardinality(String),
		transaction_date Date,
		timing_score     Float64,
		committee_score  Float64,
		price_score      Float64,
		volume_score     Float64,
		confidence       Float64,
		severity         LowCardinality(String),
		description      String,
		created_at       DateTime
	) ENGINE = ReplacingMergeTree
	ORDER BY alert_id`,
}

// Init creates the schema. Idempotent.
func (s *CHAlertStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, schema)
}

// SaveMembers upserts member records.
func (s *CHAlertStore) SaveMembers(ctx context.Context, members []models.Member) error {
	if len(members) == 0 {
		return nil
	}
	start := time.Now()

	err := s.batchInsert(ctx,
		`INSERT INTO members (member_id, name, chamber, state, district, party) VALUES (?, ?, ?, ?, ?, ?)`,
		len(members),
		func(stmt *sql.Stmt, i int) error {
			m := members[i]
			_, err := stmt.ExecContext(ctx, m.MemberID, m.Name, string(m.Chamber), m.State, m.District, m.Party)
			return err
		})
	if err != nil {
		return fmt.Errorf("save members: %w", err)
	}

	s.l.Info("members saved",
		applogger.Int("rows", len(members)),
		applogger.Duration("duration_ms", time.Since(start)))
	return nil
}

// SaveTransactions upserts transaction records.
func (s *CHAlertStore) SaveTransactions(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	start := time.Now()

	err := s.batchInsert(ctx,
		`INSERT INTO transactions (transaction_id, member_id, ticker, company_name, direction,
			transaction_date, disclosure_date, amount_range, min_amount, max_amount, owner)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(txs),
		func(stmt *sql.Stmt, i int) error {
			t := txs[i]
			_, err := stmt.ExecContext(ctx, t.TransactionID, t.MemberID, t.Ticker, t.CompanyName,
				string(t.Direction), t.TransactionDate, t.DisclosureDate, t.AmountRange,
				t.MinAmount, t.MaxAmount, t.Owner)
			return err
		})
	if err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}

	s.l.Info("transactions saved",
		applogger.Int("rows", len(txs)),
		applogger.Duration("duration_ms", time.Since(start)))
	return nil
}

// SaveAlerts upserts generated alerts. Re-running analysis over the same
// disclosures writes the same alert ids, so rows replace instead of duplicate.
func (s *CHAlertStore) SaveAlerts(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	start := time.Now()

	err := s.batchInsert(ctx,
		`INSERT INTO alerts (alert_id, member_id, transaction_id, ticker, transaction_date,
			timing_score, committee_score, price_score, volume_score,
			confidence, severity, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(alerts),
		func(stmt *sql.Stmt, i int) error {
			a := alerts[i]
			_, err := stmt.ExecContext(ctx, a.AlertID, a.MemberID, a.TransactionID, a.Ticker,
				a.TransactionDate, a.Scores.Timing, a.Scores.Committee, a.Scores.Price,
				a.Scores.Volume, a.Confidence, string(a.Severity), a.Description, a.CreatedAt)
			return err
		})
	if err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}

	s.l.Info("alerts saved",
		applogger.Int("rows", len(alerts)),
		applogger.Duration("duration_ms", time.Since(start)))
	return nil
}

// Alerts queries stored alerts, most suspicious first.
func (s *CHAlertStore) Alerts(ctx context.Context, filter domrepo.AlertFilter) ([]models.Alert, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.MemberID != "" {
		conds = append(conds, "member_id = ?")
		args = append(args, filter.MemberID)
	}
	if filter.Severity != "" {
		conds = append(conds, "severity = ?")
		args = append(args, string(filter.Severity))
	}
	if filter.MinConfidence > 0 {
		conds = append(conds, "confidence >= ?")
		args = append(args, filter.MinConfidence)
	}

	q := `SELECT alert_id, member_id, transaction_id, ticker, transaction_date,
		timing_score, committee_score, price_score, volume_score,
		confidence, severity, description, created_at
	FROM alerts FINAL`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY confidence DESC, transaction_date DESC"
	if filter.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Alert, 0, 64)
	for rows.Next() {
		var (
			a        models.Alert
			severity string
		)
		if err := rows.Scan(&a.AlertID, &a.MemberID, &a.TransactionID, &a.Ticker, &a.TransactionDate,
			&a.Scores.Timing, &a.Scores.Committee, &a.Scores.Price, &a.Scores.Volume,
			&a.Confidence, &severity, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Severity = models.Severity(severity)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// Health checks connectivity.
func (s *CHAlertStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

// Close releases the connection pool.
func (s *CHAlertStore) Close() error {
	return s.ch.Close()
}

func (s *CHAlertStore) batchInsert(ctx context.Context, query string, n int, bind func(*sql.Stmt, int) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := bind(stmt, i); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
