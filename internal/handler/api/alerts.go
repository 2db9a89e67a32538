package api

import (
	"github.com/labstack/echo/v4"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	domrepo "github.com/ybird-labs/senate-insight-lab/internal/domain/repository"
	"github.com/ybird-labs/senate-insight-lab/internal/usecase"
	xhttp "github.com/ybird-labs/senate-insight-lab/pkg/http"
	xlogger "github.com/ybird-labs/senate-insight-lab/pkg/logger"
)

// AlertsHandler serves stored alerts over HTTP.
type AlertsHandler struct {
	logger *xlogger.Logger
	store  domrepo.AlertStore
}

func NewAlertsHandler(logger *xlogger.Logger, store domrepo.AlertStore) *AlertsHandler {
	return &AlertsHandler{logger: logger, store: store}
}

func (h *AlertsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/alerts", h.Alerts)
	g.GET("/summary", h.Summary)
	e.GET("/healthz", h.Health)
}

// AlertsRequest is the query surface of GET /api/v1/alerts.
type AlertsRequest struct {
	MemberID      string  `query:"member_id"`
	Severity      string  `query:"severity" validate:"omitempty,oneof=low medium high"`
	MinConfidence float64 `query:"min_confidence" validate:"gte=0,lte=1"`
	Limit         int     `query:"limit" default:"100" validate:"gte=1,lte=1000"`
}

func (h *AlertsHandler) Alerts(c echo.Context) error {
	req := &AlertsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	alerts, err := h.store.Alerts(c.Request().Context(), domrepo.AlertFilter{
		MemberID:      req.MemberID,
		Severity:      models.Severity(req.Severity),
		MinConfidence: req.MinConfidence,
		Limit:         req.Limit,
	})
	if err != nil {
		h.logger.Error("alerts query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, alerts, int64(len(alerts)))
}

// SummaryRequest is the query surface of GET /api/v1/summary.
type SummaryRequest struct {
	Top int `query:"top" default:"10" validate:"gte=1,lte=100"`
}

func (h *AlertsHandler) Summary(c echo.Context) error {
	req := &SummaryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	alerts, err := h.store.Alerts(c.Request().Context(), domrepo.AlertFilter{})
	if err != nil {
		h.logger.Error("summary query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, usecase.Summarize(alerts, req.Top))
}

func (h *AlertsHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("storage unreachable").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
