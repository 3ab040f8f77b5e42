package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/money"
)

// BrokerFinancialSnapshot is the cumulative financial state of one brokerage account
// currency as of one date. All monetary totals are running totals since account inception.
//
// Percentages are derived from Invested: both are zero whenever Invested <= 0, otherwise
// gain / Invested * 100.
type BrokerFinancialSnapshot struct {
	ID              string    `json:"id"`
	BrokerAccountID string    `json:"brokerAccountId"`
	CurrencyID      string    `json:"currencyId"`
	Date            time.Time `json:"date"`

	Deposited                 money.Money `json:"deposited"`
	Withdrawn                 money.Money `json:"withdrawn"`
	Invested                  money.Money `json:"invested"`
	RealizedGains             money.Money `json:"realizedGains"`
	RealizedPercentage        money.Money `json:"realizedPercentage"`
	UnrealizedGains           money.Money `json:"unrealizedGains"`
	UnrealizedGainsPercentage money.Money `json:"unrealizedGainsPercentage"`
	DividendsReceived         money.Money `json:"dividendsReceived"`
	OptionsIncome             money.Money `json:"optionsIncome"`
	OtherIncome               money.Money `json:"otherIncome"`
	Commissions               money.Money `json:"commissions"`
	Fees                      money.Money `json:"fees"`
	MovementCounter           int64       `json:"movementCounter"`
	OpenTrades                bool        `json:"openTrades"`
	NetCashFlow               money.Money `json:"netCashFlow"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBrokerFinancialSnapshot creates an empty snapshot row for the given account, currency and date.
// All financial fields start at zero.
func NewBrokerFinancialSnapshot(brokerAccountID, currencyID string, date time.Time) BrokerFinancialSnapshot {
	now := time.Now().UTC()
	return BrokerFinancialSnapshot{
		ID:              uuid.New().String(),
		BrokerAccountID: brokerAccountID,
		CurrencyID:      currencyID,
		Date:            date.UTC().Truncate(24 * time.Hour),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// SnapshotKey identifies the single writer slot for a snapshot.
type SnapshotKey struct {
	BrokerAccountID string
	CurrencyID      string
	Date            string // YYYY-MM-DD
}

// Key returns the (account, currency, date) key of the snapshot.
func (s BrokerFinancialSnapshot) Key() SnapshotKey {
	return SnapshotKey{
		BrokerAccountID: s.BrokerAccountID,
		CurrencyID:      s.CurrencyID,
		Date:            s.Date.Format("2006-01-02"),
	}
}
