package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/api/request"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/model"
)

// ValidateProcessSnapshot validates a period processing request.
//
// Required fields:
//   - brokerAccountId: Must not be blank
//   - currencyId: Must not be blank
//   - date: Must be in YYYY-MM-DD format
//   - metrics.movementCounter: Must not be negative
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateProcessSnapshot(req request.ProcessSnapshotRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.BrokerAccountID) == "" {
		errors["brokerAccountId"] = "brokerAccountId is required"
	}

	if strings.TrimSpace(req.CurrencyID) == "" {
		errors["currencyId"] = "currencyId is required"
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		errors["date"] = err.Error()
	}

	if req.Metrics.MovementCounter < 0 {
		errors["metrics.movementCounter"] = "movementCounter cannot be negative"
	}

	for _, position := range req.Metrics.CurrentPositions {
		if position.Quantity.IsZero() {
			continue
		}
		if _, ok := req.Metrics.CostBasisInfo[position.Ticker]; !ok {
			errors["metrics.costBasisInfo"] = fmt.Sprintf("missing cost basis for %s", position.Ticker)
			break
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateCapitalDeployed validates a capital deployed request and converts its option trades.
// Option codes and types are matched case-insensitively; a put or call type is required even
// for codes whose capital does not depend on it.
func ValidateCapitalDeployed(req request.CapitalDeployedRequest) ([]model.OptionTrade, error) {
	errors := make(map[string]string)
	trades := make([]model.OptionTrade, 0, len(req.OptionTrades))

	for i, t := range req.OptionTrades {
		code, err := model.ParseOptionCode(t.Code)
		if err != nil {
			errors[fmt.Sprintf("optionTrades[%d].code", i)] = err.Error()
		}
		optionType, err := model.ParseOptionType(t.OptionType)
		if err != nil {
			errors[fmt.Sprintf("optionTrades[%d].optionType", i)] = err.Error()
		}
		if t.Multiplier.IsNegative() {
			errors[fmt.Sprintf("optionTrades[%d].multiplier", i)] = "multiplier cannot be negative"
		}

		trades = append(trades, model.OptionTrade{
			ID:         t.ID,
			Ticker:     t.Ticker,
			Code:       code,
			OptionType: optionType,
			Strike:     t.Strike,
			Multiplier: t.Multiplier,
		})
	}

	if len(errors) > 0 {
		return nil, &Error{Fields: errors}
	}

	return trades, nil
}
