package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/yahoo"
)

// MockYahooServer serves canned Yahoo Finance chart responses over HTTP so the real
// FinanceClient, including its decoding, is exercised.
type MockYahooServer struct {
	Server *httptest.Server
	Client *yahoo.FinanceClient

	response   atomic.Value // yahoo.Response
	status     atomic.Int64
	queryCount atomic.Int64
}

// NewMockYahooServer starts a server answering every request with an empty chart.
// It is closed when the test completes.
func NewMockYahooServer(t *testing.T) *MockYahooServer {
	t.Helper()

	m := &MockYahooServer{}
	m.response.Store(yahoo.Response{})
	m.status.Store(http.StatusOK)

	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		m.queryCount.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(m.status.Load()))
		//nolint:errcheck // Test server - a failed write fails the client side
		json.NewEncoder(w).Encode(m.response.Load().(yahoo.Response))
	}))
	t.Cleanup(m.Server.Close)

	m.Client = yahoo.NewFinanceClientWithBaseURL(m.Server.URL, m.Server.Client())
	return m
}

// WithResponse configures the response returned to every query.
func (m *MockYahooServer) WithResponse(resp yahoo.Response) *MockYahooServer {
	m.response.Store(resp)
	return m
}

// WithError configures Yahoo's error envelope with the given status code.
func (m *MockYahooServer) WithError(status int, code, description string) *MockYahooServer {
	m.status.Store(int64(status))
	m.response.Store(yahoo.Response{
		Chart: yahoo.Chart{
			Error: &yahoo.Error{Code: code, Description: description},
		},
	})
	return m
}

// QueryCount reports how many requests the server has answered.
func (m *MockYahooServer) QueryCount() int {
	return int(m.queryCount.Load())
}

// CreateMockYahooResponse builds a chart with one daily close per entry of closes
// (keyed by YYYY-MM-DD). A nil close models a day Yahoo reports without a quote.
func CreateMockYahooResponse(symbol, currency string, closes map[string]*string) yahoo.Response {
	days := make([]string, 0, len(closes))
	for day := range closes {
		days = append(days, day)
	}
	sort.Strings(days)

	timestamps := make([]int64, len(days))
	prices := make([]*decimal.Decimal, len(days))
	for i, day := range days {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			panic(err)
		}
		// Yahoo stamps daily bars at the market open, not midnight.
		timestamps[i] = date.Add(14*time.Hour + 30*time.Minute).Unix()

		if closes[day] != nil {
			d := decimal.RequireFromString(*closes[day])
			prices[i] = &d
		}
	}

	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{
				{
					Meta: yahoo.Meta{
						Symbol:       symbol,
						Currency:     currency,
						ExchangeName: "NMS",
					},
					Timestamp: timestamps,
					Indicators: yahoo.IndicatorsContainer{
						Quote: []yahoo.Quote{
							{Open: prices, Close: prices, High: prices, Low: prices},
						},
					},
				},
			},
		},
	}
}

// Price returns a pointer to s for CreateMockYahooResponse.
func Price(s string) *string {
	return &s
}
