package usecase

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
)

// ReportFormat selects the report output encoding.
type ReportFormat string

const (
	FormatJSON ReportFormat = "json"
	FormatCSV  ReportFormat = "csv"
	FormatText ReportFormat = "text"
)

// ParseReportFormat validates a format flag value.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch ReportFormat(s) {
	case FormatJSON, FormatCSV, FormatText:
		return ReportFormat(s), nil
	default:
		return "", fmt.Errorf("unknown report format %q (want json, csv or text)", s)
	}
}

// scores and confidence are rounded to a fixed precision so JSON and CSV
// encode the identical numbers.
const scoreDecimals = 4

func roundScore(v float64) float64 {
	p := math.Pow10(scoreDecimals)
	return math.Round(v*p) / p
}

func roundAlert(a models.Alert) models.Alert {
	a.Scores.Timing = roundScore(a.Scores.Timing)
	a.Scores.Committee = roundScore(a.Scores.Committee)
	a.Scores.Price = roundScore(a.Scores.Price)
	a.Scores.Volume = roundScore(a.Scores.Volume)
	a.Confidence = roundScore(a.Confidence)
	return a
}

// WriteAlertsJSON encodes alerts as a JSON array with rounded scores.
func WriteAlertsJSON(w io.Writer, alerts []models.Alert) error {
	out := make([]models.Alert, len(alerts))
	for i, a := range alerts {
		out[i] = roundAlert(a)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ReadAlertsJSON decodes a JSON alert array.
func ReadAlertsJSON(r io.Reader) ([]models.Alert, error) {
	var alerts []models.Alert
	if err := json.NewDecoder(r).Decode(&alerts); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}
	return alerts, nil
}

var csvHeader = []string{
	"alert_id", "member_id", "transaction_id", "ticker", "transaction_date",
	"timing_score", "committee_score", "price_score", "volume_score",
	"confidence", "severity", "description", "created_at",
}

// WriteAlertsCSV writes alerts as flattened CSV rows with rounded scores.
func WriteAlertsCSV(w io.Writer, alerts []models.Alert) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, raw := range alerts {
		a := roundAlert(raw)
		row := []string{
			a.AlertID, a.MemberID, a.TransactionID, a.Ticker,
			a.TransactionDate.Format("2006-01-02"),
			formatScore(a.Scores.Timing),
			formatScore(a.Scores.Committee),
			formatScore(a.Scores.Price),
			formatScore(a.Scores.Volume),
			formatScore(a.Confidence),
			string(a.Severity),
			a.Description,
			a.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadAlertsCSV parses rows written by WriteAlertsCSV.
func ReadAlertsCSV(r io.Reader) ([]models.Alert, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return []models.Alert{}, nil
	}
	alerts := make([]models.Alert, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("csv row has %d fields, want %d", len(rec), len(csvHeader))
		}
		txDate, err := time.Parse("2006-01-02", rec[4])
		if err != nil {
			return nil, fmt.Errorf("parse transaction_date: %w", err)
		}
		createdAt, err := time.Parse(time.RFC3339, rec[12])
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		scores := [5]float64{}
		for i, col := range []int{5, 6, 7, 8, 9} {
			v, err := strconv.ParseFloat(rec[col], 64)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", csvHeader[col], err)
			}
			scores[i] = v
		}
		alerts = append(alerts, models.Alert{
			AlertID:         rec[0],
			MemberID:        rec[1],
			TransactionID:   rec[2],
			Ticker:          rec[3],
			TransactionDate: txDate,
			Scores: models.SignalScores{
				Timing: scores[0], Committee: scores[1],
				Price: scores[2], Volume: scores[3],
			},
			Confidence:  scores[4],
			Severity:    models.Severity(rec[10]),
			Description: rec[11],
			CreatedAt:   createdAt,
		})
	}
	return alerts, nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', scoreDecimals, 64)
}

// WriteSummaryText renders the human-readable run report.
func WriteSummaryText(w io.Writer, s models.RunSummary) error {
	if s.AlertsGenerated == 0 {
		_, err := fmt.Fprintln(w, "No alerts generated.")
		return err
	}

	fmt.Fprintf(w, "Senate Insight Analysis Report\n")
	fmt.Fprintf(w, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Total alerts:  %d\n", s.AlertsGenerated)
	fmt.Fprintf(w, "  high:        %d\n", s.AlertsByTier[models.SeverityHigh])
	fmt.Fprintf(w, "  medium:      %d\n", s.AlertsByTier[models.SeverityMedium])
	fmt.Fprintf(w, "  low:         %d\n", s.AlertsByTier[models.SeverityLow])
	if s.MembersProcessed > 0 || s.MembersFailed > 0 {
		fmt.Fprintf(w, "Members:       %d processed, %d failed\n", s.MembersProcessed, s.MembersFailed)
	}

	if len(s.AlertsByMember) > 0 {
		fmt.Fprintf(w, "\nTop flagged members:\n")
		type memberCount struct {
			id string
			n  int
		}
		counts := make([]memberCount, 0, len(s.AlertsByMember))
		for id, n := range s.AlertsByMember {
			counts = append(counts, memberCount{id, n})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].n != counts[j].n {
				return counts[i].n > counts[j].n
			}
			return counts[i].id < counts[j].id
		})
		if len(counts) > 5 {
			counts = counts[:5]
		}
		for _, c := range counts {
			fmt.Fprintf(w, "  %-12s %d alerts\n", c.id, c.n)
		}
	}

	if len(s.TopAlerts) > 0 {
		fmt.Fprintf(w, "\nTop alerts:\n")
		for _, a := range s.TopAlerts {
			fmt.Fprintf(w, "  [%s] %s\n", a.Severity, a.Description)
		}
	}
	return nil
}
