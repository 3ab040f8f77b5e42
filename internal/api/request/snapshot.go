package request

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/money"
)

// ProcessSnapshotRequest represents the request body for finalizing one period
type ProcessSnapshotRequest struct {
	BrokerAccountID string                           `json:"brokerAccountId"`
	CurrencyID      string                           `json:"currencyId"`
	Date            string                           `json:"date"`
	Metrics         model.CalculatedFinancialMetrics `json:"metrics"`
}

// ProcessSnapshotBatchRequest represents the request body for finalizing many periods
type ProcessSnapshotBatchRequest struct {
	Periods []ProcessSnapshotRequest `json:"periods"`
}

// OptionTradeRequest carries an option trade with its code and type as free text.
type OptionTradeRequest struct {
	ID         string          `json:"id,omitempty"`
	Ticker     string          `json:"ticker,omitempty"`
	Code       string          `json:"code"`
	OptionType string          `json:"optionType"`
	Strike     money.Money     `json:"strike"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

type CapitalDeployedRequest struct {
	OptionTrades []OptionTradeRequest `json:"optionTrades"`
	StockTrades  []model.Trade        `json:"stockTrades"`
}
