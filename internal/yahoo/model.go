package yahoo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response represents the raw JSON response structure from the Yahoo Finance chart API.
// Prices decode straight into decimals; days without a quote arrive as null and stay nil.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top-level chart envelope.
type Chart struct {
	Result []Result `json:"result"`
	Error  *Error   `json:"error"`
}

// Error is the error object Yahoo returns instead of a result.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result holds the series for one symbol.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Indicators IndicatorsContainer `json:"indicators"`
}

// Meta describes the quoted instrument.
type Meta struct {
	Currency     string `json:"currency"`
	Symbol       string `json:"symbol"`
	ExchangeName string `json:"exchangeName"`
}

// IndicatorsContainer wraps the quote arrays.
type IndicatorsContainer struct {
	Quote []Quote `json:"quote"`
}

// Quote holds parallel OHLC arrays aligned with Result.Timestamp.
type Quote struct {
	Open  []*decimal.Decimal `json:"open"`
	Close []*decimal.Decimal `json:"close"`
	High  []*decimal.Decimal `json:"high"`
	Low   []*decimal.Decimal `json:"low"`
}

// PriceChart is the parsed close-price series of one symbol.
type PriceChart struct {
	Symbol   string
	Currency string
	Closes   []ClosePrice
}

// ClosePrice is the close of a single trading day.
type ClosePrice struct {
	Date  time.Time
	Close decimal.Decimal
}
