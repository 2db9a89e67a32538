package models

import (
	"fmt"
	"strings"
	"time"
)

// TradeDirection is the side of a disclosed transaction.
type TradeDirection string

const (
	DirectionPurchase TradeDirection = "purchase"
	DirectionSale     TradeDirection = "sale"
	DirectionExchange TradeDirection = "exchange"
)

// ParseDirection normalizes the free-form transaction type found in
// disclosure filings ("Buy", "Purchase", "Sale (Full)", ...).
func ParseDirection(s string) (TradeDirection, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); {
	case v == "buy" || v == "purchase" || strings.HasPrefix(v, "purchase"):
		return DirectionPurchase, nil
	case v == "sell" || v == "sale" || strings.HasPrefix(v, "sale"):
		return DirectionSale, nil
	case v == "exchange":
		return DirectionExchange, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Transaction is one disclosed stock transaction by a member.
// Immutable fact record.
type Transaction struct {
	TransactionID   string         `json:"transaction_id"`
	MemberID        string         `json:"member_id"`
	Ticker          string         `json:"ticker"`
	CompanyName     string         `json:"company_name,omitempty"`
	Direction       TradeDirection `json:"direction"`
	TransactionDate time.Time      `json:"transaction_date"`
	DisclosureDate  time.Time      `json:"disclosure_date"`
	AmountRange     string         `json:"amount_range,omitempty"` // e.g. "$1,001 - $15,000"
	MinAmount       float64        `json:"min_amount,omitempty"`
	MaxAmount       float64        `json:"max_amount,omitempty"`
	Owner           string         `json:"owner,omitempty"` // Self, Spouse, Child
}

// DedupKey identifies a disclosure uniquely: the same (member, ticker, date,
// direction) reported twice is one economic event and must not be scored twice.
func (t Transaction) DedupKey() string {
	return fmt.Sprintf("%s|%s|%s|%s",
		t.MemberID, strings.ToUpper(t.Ticker), t.TransactionDate.Format("2006-01-02"), t.Direction)
}

// Validate rejects malformed required fields before the record reaches scoring.
func (t Transaction) Validate() error {
	if t.MemberID == "" {
		return fmt.Errorf("transaction %s: member_id empty", t.TransactionID)
	}
	if t.Ticker == "" {
		return fmt.Errorf("transaction %s: ticker empty", t.TransactionID)
	}
	if t.TransactionDate.IsZero() {
		return fmt.Errorf("transaction %s: transaction_date zero", t.TransactionID)
	}
	switch t.Direction {
	case DirectionPurchase, DirectionSale, DirectionExchange:
	default:
		return fmt.Errorf("transaction %s: direction %q invalid", t.TransactionID, t.Direction)
	}
	return nil
}
