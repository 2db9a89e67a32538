package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	domrepo "github.com/ybird-labs/senate-insight-lab/internal/domain/repository"
	"github.com/ybird-labs/senate-insight-lab/pkg/logger"
)

type fakeStore struct {
	alerts     []models.Alert
	lastFilter domrepo.AlertFilter
	queryErr   error
	healthErr  error
	calls      int
}

func (f *fakeStore) Init(ctx context.Context) error { return nil }

func (f *fakeStore) SaveMembers(ctx context.Context, members []models.Member) error { return nil }

func (f *fakeStore) SaveTransactions(ctx context.Context, txs []models.Transaction) error {
	return nil
}

func (f *fakeStore) SaveAlerts(ctx context.Context, alerts []models.Alert) error { return nil }

func (f *fakeStore) Alerts(ctx context.Context, filter domrepo.AlertFilter) ([]models.Alert, error) {
	f.calls++
	f.lastFilter = filter
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.alerts, nil
}

func (f *fakeStore) Health(ctx context.Context) error { return f.healthErr }

func (f *fakeStore) Close() error { return nil }

func newTestServer(store *fakeStore) *echo.Echo {
	e := echo.New()
	NewAlertsHandler(logger.Nop(), store).RegisterRoutes(e)
	return e
}

func doRequest(t *testing.T, e *echo.Echo, target string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func bodyStatus(t *testing.T, body map[string]json.RawMessage) int {
	t.Helper()
	var status int
	require.NoError(t, json.Unmarshal(body["status"], &status))
	return status
}

func sampleAlert(id string) models.Alert {
	return models.Alert{
		AlertID:         id,
		MemberID:        "S001",
		TransactionID:   "tx-" + id,
		Ticker:          "GOOGL",
		TransactionDate: time.Date(2023, 9, 15, 0, 0, 0, 0, time.UTC),
		Scores:          models.SignalScores{Timing: 1, Committee: 1},
		Confidence:      0.55,
		Severity:        models.SeverityMedium,
		Description:     "test alert",
		CreatedAt:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestAlertsAppliesFilter(t *testing.T) {
	store := &fakeStore{alerts: []models.Alert{sampleAlert("a1")}}
	e := newTestServer(store)

	rec, body := doRequest(t, e, "/api/v1/alerts?member_id=S001&severity=high&min_confidence=0.6&limit=5")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, bodyStatus(t, body))
	assert.Equal(t, domrepo.AlertFilter{
		MemberID:      "S001",
		Severity:      models.SeverityHigh,
		MinConfidence: 0.6,
		Limit:         5,
	}, store.lastFilter)

	var data struct {
		Rows  []models.Alert `json:"rows"`
		Total int64          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body["data"], &data))
	assert.Len(t, data.Rows, 1)
	assert.Equal(t, int64(1), data.Total)
	assert.Equal(t, "a1", data.Rows[0].AlertID)
}

func TestAlertsDefaultLimit(t *testing.T) {
	store := &fakeStore{}
	e := newTestServer(store)

	_, body := doRequest(t, e, "/api/v1/alerts")

	assert.Equal(t, http.StatusOK, bodyStatus(t, body))
	assert.Equal(t, 100, store.lastFilter.Limit)
}

func TestAlertsRejectsUnknownSeverity(t *testing.T) {
	store := &fakeStore{}
	e := newTestServer(store)

	_, body := doRequest(t, e, "/api/v1/alerts?severity=extreme")

	assert.Equal(t, http.StatusBadRequest, bodyStatus(t, body))
	assert.Zero(t, store.calls)

	var errs []struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(body["data"], &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_ONEOF", errs[0].Code)
	assert.Equal(t, "Severity", errs[0].Field)
}

func TestAlertsQueryError(t *testing.T) {
	store := &fakeStore{queryErr: errors.New("clickhouse down")}
	e := newTestServer(store)

	_, body := doRequest(t, e, "/api/v1/alerts")

	assert.Equal(t, http.StatusInternalServerError, bodyStatus(t, body))
}

func TestSummaryTopN(t *testing.T) {
	high := sampleAlert("a1")
	high.Confidence = 0.8
	high.Severity = models.SeverityHigh
	store := &fakeStore{alerts: []models.Alert{sampleAlert("a2"), high}}
	e := newTestServer(store)

	_, body := doRequest(t, e, "/api/v1/summary?top=1")

	assert.Equal(t, http.StatusOK, bodyStatus(t, body))

	var summary models.RunSummary
	require.NoError(t, json.Unmarshal(body["data"], &summary))
	assert.Equal(t, 2, summary.AlertsGenerated)
	require.Len(t, summary.TopAlerts, 1)
	assert.Equal(t, "a1", summary.TopAlerts[0].AlertID)
}

func TestHealth(t *testing.T) {
	store := &fakeStore{}
	e := newTestServer(store)

	rec, body := doRequest(t, e, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, bodyStatus(t, body))

	store.healthErr = errors.New("no route to host")
	_, body = doRequest(t, e, "/healthz")
	assert.Equal(t, http.StatusInternalServerError, bodyStatus(t, body))
}
