package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/money"
)

// OptionCode is the open/close action of an option trade.
type OptionCode string

const (
	BuyToOpen   OptionCode = "BUY_TO_OPEN"
	SellToOpen  OptionCode = "SELL_TO_OPEN"
	BuyToClose  OptionCode = "BUY_TO_CLOSE"
	SellToClose OptionCode = "SELL_TO_CLOSE"
	Expiration  OptionCode = "EXPIRATION"
)

// OptionType distinguishes calls from puts.
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// ParseOptionCode converts user input (case-insensitive) into an OptionCode.
func ParseOptionCode(s string) (OptionCode, error) {
	code := OptionCode(strings.ToUpper(strings.TrimSpace(s)))
	switch code {
	case BuyToOpen, SellToOpen, BuyToClose, SellToClose, Expiration:
		return code, nil
	}
	return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidOptionCode, s)
}

// ParseOptionType converts user input (case-insensitive) into an OptionType.
func ParseOptionType(s string) (OptionType, error) {
	optionType := OptionType(strings.ToUpper(strings.TrimSpace(s)))
	switch optionType {
	case Call, Put:
		return optionType, nil
	}
	return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidOptionType, s)
}

// OptionTrade is a single option contract execution.
type OptionTrade struct {
	ID         string          `json:"id,omitempty"`
	Ticker     string          `json:"ticker,omitempty"`
	Code       OptionCode      `json:"code"`
	OptionType OptionType      `json:"optionType"`
	Strike     money.Money     `json:"strike"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// Trade is a single stock execution. Quantity is negative for sells.
type Trade struct {
	ID       string          `json:"id,omitempty"`
	Ticker   string          `json:"ticker,omitempty"`
	Price    money.Money     `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}
