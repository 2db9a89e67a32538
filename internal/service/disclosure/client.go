// Package disclosure retrieves financial-disclosure transactions from the
// Senate eFD search service and normalizes them into Transaction records.
package disclosure

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	drepo "github.com/ybird-labs/senate-insight-lab/internal/domain/repository"
	"github.com/ybird-labs/senate-insight-lab/internal/service/ratelimit"
	apphttp "github.com/ybird-labs/senate-insight-lab/pkg/http"
	"github.com/ybird-labs/senate-insight-lab/pkg/logger"
	"github.com/ybird-labs/senate-insight-lab/pkg/util"
)

const (
	limiterKey    = "disclosure"
	limiterBurst  = 2.0
	limiterRefill = 0.5 // the disclosure portal throttles aggressively
)

// Client implements repository.DisclosureData.
type Client struct {
	baseURL string
	http    *apphttp.Client
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

// New creates a disclosure client.
func New(baseURL string, timeout time.Duration, limiter *ratelimit.Limiter, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    apphttp.NewClient(apphttp.WithTimeout(timeout)),
		limiter: limiter,
		log:     log,
	}
}

var _ drepo.DisclosureData = (*Client)(nil)

type transactionEntry struct {
	TransactionID   string `json:"transaction_id"`
	Ticker          string `json:"ticker"`
	AssetName       string `json:"asset_description"`
	TransactionType string `json:"type"`
	TransactionDate string `json:"transaction_date"`
	DisclosureDate  string `json:"disclosure_date"`
	Amount          string `json:"amount"`
	Owner           string `json:"owner"`
}

type transactionsResponse struct {
	Transactions []transactionEntry `json:"transactions"`
}

// MemberTransactions returns the member's disclosed stock transactions since
// the given time. Records that cannot be normalized are logged and dropped
// rather than failing the whole member.
func (c *Client) MemberTransactions(ctx context.Context, memberID string, since time.Time) ([]models.Transaction, error) {
	if err := c.limiter.Wait(ctx, limiterKey, limiterBurst, limiterRefill); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("member_id", memberID)
	if !since.IsZero() {
		q.Set("from_date", since.UTC().Format("2006-01-02"))
	}

	var resp transactionsResponse
	err := c.http.GetJSON(ctx, &apphttp.RequestOptions{
		URL:   c.baseURL + "/search/report/transactions",
		Query: q,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions for %s: %w", memberID, err)
	}

	txs := make([]models.Transaction, 0, len(resp.Transactions))
	for _, e := range resp.Transactions {
		tx, err := c.normalize(memberID, e)
		if err != nil {
			c.log.Warn("transaction dropped",
				logger.String("member_id", memberID),
				logger.String("transaction_id", e.TransactionID),
				logger.Error(err))
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (c *Client) normalize(memberID string, e transactionEntry) (models.Transaction, error) {
	direction, err := models.ParseDirection(e.TransactionType)
	if err != nil {
		return models.Transaction{}, err
	}

	txDate, ok := util.ParseDate(e.TransactionDate)
	if !ok {
		return models.Transaction{}, fmt.Errorf("unparseable transaction date %q", e.TransactionDate)
	}

	tx := models.Transaction{
		TransactionID:   e.TransactionID,
		MemberID:        memberID,
		Ticker:          strings.ToUpper(strings.TrimSpace(e.Ticker)),
		CompanyName:     strings.TrimSpace(e.AssetName),
		Direction:       direction,
		TransactionDate: txDate,
		DisclosureDate:  util.ParseDateDefault(e.DisclosureDate, txDate),
		AmountRange:     e.Amount,
		Owner:           e.Owner,
	}
	if tx.TransactionID == "" {
		tx.TransactionID = "tx_" + tx.DedupKey()
	}
	if min, max, ok := util.ParseAmountRange(e.Amount); ok {
		tx.MinAmount = min
		tx.MaxAmount = max
	}

	if err := tx.Validate(); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}
