package model

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/money"
)

// StockPosition is an open stock holding at the end of a period.
type StockPosition struct {
	Ticker   string          `json:"ticker"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CostBasis is the total acquisition cost of an open position.
type CostBasis struct {
	Ticker    string      `json:"ticker"`
	TotalCost money.Money `json:"totalCost"`
}

// CostBasisInfo maps ticker to its cost basis.
type CostBasisInfo map[string]CostBasis

// CalculatedFinancialMetrics holds the deltas of one period for a (currency, date).
// It is produced by the movement pipeline and is read-only to the snapshot engine.
type CalculatedFinancialMetrics struct {
	Deposited         money.Money `json:"deposited"`
	Withdrawn         money.Money `json:"withdrawn"`
	Invested          money.Money `json:"invested"`
	RealizedGains     money.Money `json:"realizedGains"`
	DividendsReceived money.Money `json:"dividendsReceived"`
	OptionsIncome     money.Money `json:"optionsIncome"`
	OtherIncome       money.Money `json:"otherIncome"`
	Commissions       money.Money `json:"commissions"`
	Fees              money.Money `json:"fees"`
	MovementCounter   int64       `json:"movementCounter"`

	CurrentPositions      []StockPosition `json:"currentPositions"`
	CostBasisInfo         CostBasisInfo   `json:"costBasisInfo"`
	OptionUnrealizedGains money.Money     `json:"optionUnrealizedGains"`
	HasOpenPositions      bool            `json:"hasOpenPositions"`
}

// HasMovements reports whether any movement contributed to the period.
func (m CalculatedFinancialMetrics) HasMovements() bool {
	return m.MovementCounter > 0
}

// UnrealizedGains is the mark-to-market result for a set of open positions.
type UnrealizedGains struct {
	Amount     money.Money `json:"amount"`
	Percentage money.Money `json:"percentage"`
}
