package models

import "time"

// Severity is the discrete tier an alert's confidence falls into.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SignalScores holds the four component scores, each in [0,1].
type SignalScores struct {
	Timing    float64 `json:"timing"`
	Committee float64 `json:"committee"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
}

// Alert is a suspicion finding for one (member, transaction) pair.
// Created by the alert generator, never mutated afterwards.
type Alert struct {
	AlertID         string       `json:"alert_id"`
	MemberID        string       `json:"member_id"`
	TransactionID   string       `json:"transaction_id"`
	Ticker          string       `json:"ticker"`
	TransactionDate time.Time    `json:"transaction_date"`
	Scores          SignalScores `json:"scores"`
	Confidence      float64      `json:"confidence"`
	Severity        Severity     `json:"severity"`
	Description     string       `json:"description"`
	CreatedAt       time.Time    `json:"created_at"`
}

// RunSummary aggregates the outcome of one pipeline run.
type RunSummary struct {
	StartedAt        time.Time        `json:"started_at"`
	FinishedAt       time.Time        `json:"finished_at"`
	MembersProcessed int              `json:"members_processed"`
	MembersFailed    int              `json:"members_failed"`
	AlertsGenerated  int              `json:"alerts_generated"`
	AlertsByTier     map[Severity]int `json:"alerts_by_tier"`
	AlertsByMember   map[string]int   `json:"alerts_by_member"`
	TopAlerts        []Alert          `json:"top_alerts,omitempty"`
	Failures         []string         `json:"failures,omitempty"`
}
