// Package marketdata retrieves daily price and volume history from the
// Alpha Vantage API.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	drepo "github.com/ybird-labs/senate-insight-lab/internal/domain/repository"
	"github.com/ybird-labs/senate-insight-lab/internal/service/ratelimit"
	"github.com/ybird-labs/senate-insight-lab/pkg/cache"
	apphttp "github.com/ybird-labs/senate-insight-lab/pkg/http"
	"github.com/ybird-labs/senate-insight-lab/pkg/logger"
)

const (
	limiterKey    = "marketdata"
	limiterBurst  = 5.0
	limiterRefill = 5.0 / 60.0 // free tier: 5 requests per minute
)

// Client implements repository.MarketData against Alpha Vantage.
type Client struct {
	apiKey   string
	baseURL  string
	cacheTTL time.Duration
	http     *apphttp.Client
	limiter  *ratelimit.Limiter
	cache    cache.Service
	log      *logger.Logger
}

// New creates an Alpha Vantage client.
func New(apiKey, baseURL string, timeout, cacheTTL time.Duration, limiter *ratelimit.Limiter, c cache.Service, log *logger.Logger) *Client {
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		cacheTTL: cacheTTL,
		http:     apphttp.NewClient(apphttp.WithTimeout(timeout)),
		limiter:  limiter,
		cache:    c,
		log:      log,
	}
}

var _ drepo.MarketData = (*Client)(nil)

type dailyBar struct {
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type dailyResponse struct {
	ErrorMessage string              `json:"Error Message"`
	Note         string              `json:"Note"`
	Series       map[string]dailyBar `json:"Time Series (Daily)"`
}

// DailySeries returns the close/volume history for ticker restricted to
// [from, to]. The full upstream series is cached per ticker so repeated
// transactions in the same ticker cost one API call.
func (c *Client) DailySeries(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error) {
	full, err := c.fullSeries(ctx, ticker)
	if err != nil {
		return models.PriceSeries{}, err
	}

	from, to = models.Midnight(from), models.Midnight(to)
	out := models.PriceSeries{Ticker: ticker}
	for _, p := range full.Points {
		d := models.Midnight(p.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		out.Points = append(out.Points, p)
	}
	if out.Empty() {
		return models.PriceSeries{}, fmt.Errorf("%s %s-%s: %w",
			ticker, from.Format("2006-01-02"), to.Format("2006-01-02"), models.ErrDataUnavailable)
	}
	return out, nil
}

func (c *Client) fullSeries(ctx context.Context, ticker string) (models.PriceSeries, error) {
	cacheKey := "marketdata:daily:" + ticker
	var cached models.PriceSeries
	if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	if err := c.limiter.Wait(ctx, limiterKey, limiterBurst, limiterRefill); err != nil {
		return models.PriceSeries{}, err
	}

	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", ticker)
	q.Set("outputsize", "full")
	q.Set("apikey", c.apiKey)

	var resp dailyResponse
	err := c.http.GetJSON(ctx, &apphttp.RequestOptions{URL: c.baseURL, Query: q}, &resp)
	if err != nil {
		var se *apphttp.StatusError
		if errors.As(err, &se) && se.NotFound() {
			return models.PriceSeries{}, fmt.Errorf("%s: %w", ticker, models.ErrDataUnavailable)
		}
		return models.PriceSeries{}, fmt.Errorf("fetch daily series for %s: %w", ticker, err)
	}
	if resp.ErrorMessage != "" || len(resp.Series) == 0 {
		// unknown symbol or an empty payload, both mean no evidence
		return models.PriceSeries{}, fmt.Errorf("%s: %w", ticker, models.ErrDataUnavailable)
	}
	if resp.Note != "" {
		c.log.Warn("marketdata throttle note", logger.String("ticker", ticker), logger.String("note", resp.Note))
	}

	series := models.PriceSeries{Ticker: ticker, Points: make([]models.PricePoint, 0, len(resp.Series))}
	for day, bar := range resp.Series {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		closePrice, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil || closePrice <= 0 {
			continue
		}
		volume, _ := strconv.ParseFloat(bar.Volume, 64)
		series.Points = append(series.Points, models.PricePoint{
			Date:   date,
			Close:  closePrice,
			Volume: volume,
		})
	}
	sort.Slice(series.Points, func(i, j int) bool {
		return series.Points[i].Date.Before(series.Points[j].Date)
	})

	if err := c.cache.Set(ctx, cacheKey, series, c.cacheTTL); err != nil {
		c.log.Warn("cache series failed", logger.String("ticker", ticker), logger.Error(err))
	}
	return series, nil
}
