package service

import (
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/money"
)

// CalculateOptionTradeCapitalDeployed returns the capital an option trade commits.
//
// Opening a long option and writing a put both tie up Strike * Multiplier (the put is treated
// as cash-secured). Written calls are assumed covered and deploy nothing. Closing actions and
// expirations never deploy new capital.
func CalculateOptionTradeCapitalDeployed(trade model.OptionTrade) money.Money {
	switch trade.Code {
	case model.BuyToOpen:
		return trade.Strike.Mul(trade.Multiplier)
	case model.SellToOpen:
		if trade.OptionType == model.Put {
			return trade.Strike.Mul(trade.Multiplier)
		}
		return money.Zero()
	default:
		return money.Zero()
	}
}

// CalculateStockTradeCapitalDeployed returns |Price * Quantity|, independent of trade direction.
func CalculateStockTradeCapitalDeployed(trade model.Trade) money.Money {
	return trade.Price.Mul(trade.Quantity).Abs()
}

// CalculateTotalOptionCapitalDeployed sums the capital deployed by every option trade.
func CalculateTotalOptionCapitalDeployed(trades []model.OptionTrade) money.Money {
	total := money.Zero()
	for _, trade := range trades {
		total = total.Add(CalculateOptionTradeCapitalDeployed(trade))
	}
	return total
}

// CalculateTotalStockCapitalDeployed sums the capital deployed by every stock trade.
func CalculateTotalStockCapitalDeployed(trades []model.Trade) money.Money {
	total := money.Zero()
	for _, trade := range trades {
		total = total.Add(CalculateStockTradeCapitalDeployed(trade))
	}
	return total
}

// CapitalDeployedReport is the per-trade and total capital of a set of trades.
type CapitalDeployedReport struct {
	OptionTrades       []TradeCapital `json:"optionTrades"`
	StockTrades        []TradeCapital `json:"stockTrades"`
	TotalOptionCapital string         `json:"totalOptionCapital"`
	TotalStockCapital  string         `json:"totalStockCapital"`
	TotalCapital       string         `json:"totalCapital"`
}

// TradeCapital is the capital deployed by one trade, in input order.
type TradeCapital struct {
	ID              string `json:"id,omitempty"`
	Ticker          string `json:"ticker,omitempty"`
	CapitalDeployed string `json:"capitalDeployed"`
}

// BuildCapitalDeployedReport evaluates every trade and the totals.
func BuildCapitalDeployedReport(optionTrades []model.OptionTrade, stockTrades []model.Trade) CapitalDeployedReport {
	report := CapitalDeployedReport{
		OptionTrades: make([]TradeCapital, len(optionTrades)),
		StockTrades:  make([]TradeCapital, len(stockTrades)),
	}

	for i, t := range optionTrades {
		report.OptionTrades[i] = TradeCapital{
			ID:              t.ID,
			Ticker:          t.Ticker,
			CapitalDeployed: CalculateOptionTradeCapitalDeployed(t).String(),
		}
	}
	for i, t := range stockTrades {
		report.StockTrades[i] = TradeCapital{
			ID:              t.ID,
			Ticker:          t.Ticker,
			CapitalDeployed: CalculateStockTradeCapitalDeployed(t).String(),
		}
	}

	optionTotal := CalculateTotalOptionCapitalDeployed(optionTrades)
	stockTotal := CalculateTotalStockCapitalDeployed(stockTrades)

	report.TotalOptionCapital = optionTotal.String()
	report.TotalStockCapital = stockTotal.String()
	report.TotalCapital = optionTotal.Add(stockTotal).String()

	return report
}
