package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// ErrNoPriceData is returned when Yahoo has no usable close for the requested window.
var ErrNoPriceData = errors.New("no price data returned")

// FinanceClient provides methods for fetching close prices from the Yahoo Finance chart API.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a new Yahoo Finance client with default HTTP settings.
func NewFinanceClient() *FinanceClient {
	return NewFinanceClientWithBaseURL(defaultBaseURL, &http.Client{Timeout: 15 * time.Second})
}

// NewFinanceClientWithBaseURL creates a client against another host, used by tests.
func NewFinanceClientWithBaseURL(baseURL string, httpClient *http.Client) *FinanceClient {
	return &FinanceClient{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// ParseChart converts a raw Yahoo Finance API response into a close-price series.
// Days with a null close are skipped.
//
// Returns ErrNoPriceData if the response holds no timestamps or no closes, and an error
// when the close array does not line up with the timestamps.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, ErrNoPriceData
	}
	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, ErrNoPriceData
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no close prices", ErrNoPriceData)
	}

	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	chart := PriceChart{
		Symbol:   result.Meta.Symbol,
		Currency: result.Meta.Currency,
		Closes:   make([]ClosePrice, 0, len(closes)),
	}
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		chart.Closes = append(chart.Closes, ClosePrice{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	return chart, nil
}

// CloseOnOrBefore returns the last close dated on or before target (date-only comparison).
func (c PriceChart) CloseOnOrBefore(target time.Time) (ClosePrice, bool) {
	targetDay := target.UTC().Truncate(24 * time.Hour)

	var found ClosePrice
	ok := false
	for _, p := range c.Closes {
		day := p.Date.UTC().Truncate(24 * time.Hour)
		if day.After(targetDay) {
			continue
		}
		if !ok || day.After(found.Date.UTC().Truncate(24*time.Hour)) {
			found = p
			ok = true
		}
	}
	return found, ok
}

// GetClosePriceOnOrBefore fetches the week of daily closes ending at date and returns the
// latest close on or before date, together with the quote currency Yahoo reports.
func (c *FinanceClient) GetClosePriceOnOrBefore(ctx context.Context, symbol string, date time.Time) (decimal.Decimal, string, error) {
	start := date.AddDate(0, 0, -7)
	end := date.AddDate(0, 0, 1)

	resp, err := c.QuerySymbolByDateRange(ctx, symbol, start, end)
	if err != nil {
		return decimal.Decimal{}, "", err
	}

	chart, err := c.ParseChart(resp)
	if err != nil {
		return decimal.Decimal{}, "", fmt.Errorf("symbol %s: %w", symbol, err)
	}

	price, ok := chart.CloseOnOrBefore(date)
	if !ok {
		return decimal.Decimal{}, "", fmt.Errorf("%w: %s on or before %s", ErrNoPriceData, symbol, date.Format("2006-01-02"))
	}

	return price.Close, chart.Currency, nil
}

// QuerySymbolByDateRange fetches daily price data for a symbol within a specific date range.
//
// The method uses Yahoo Finance's period-based query format with Unix timestamps.
func (c *FinanceClient) QuerySymbolByDateRange(ctx context.Context, symbol string, startDate, endDate time.Time) (Response, error) {
	endpoint := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL,
		url.PathEscape(symbol),
		startDate.Unix(),
		endDate.Unix(),
	)
	result, err := c.queryYahoo(ctx, endpoint)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: no results for symbol %s", ErrNoPriceData, symbol)
	}

	return result, nil
}

// queryYahoo executes the HTTP request, decodes the JSON body and surfaces API errors.
//
// The method sets required headers:
//   - User-Agent: Mimics a browser to avoid API blocking
//   - Accept: Requests JSON response format
func (c *FinanceClient) queryYahoo(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("yahoo request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, fmt.Errorf("failed to decode yahoo response (status %d): %w", resp.StatusCode, err)
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s", response.Chart.Error.Description)
	}

	return response, nil
}
