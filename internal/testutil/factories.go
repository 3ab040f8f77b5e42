package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/money"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/repository"
)

// SnapshotBuilder provides a fluent interface for creating test snapshots.
//
// Example usage:
//
//	// Simple creation with defaults
//	snapshot := testutil.NewSnapshot().Build(t, db)
//
//	// Customized snapshot
//	snapshot := testutil.NewSnapshot().
//	    WithAccount("U1234567").
//	    WithDate(testutil.Date(2024, 1, 2)).
//	    WithInvested(testutil.Money("1000")).
//	    Build(t, db)
type SnapshotBuilder struct {
	snapshot model.BrokerFinancialSnapshot
}

// NewSnapshot creates a SnapshotBuilder with a fresh id, a random account, USD, 2024-01-02
// and every financial field zero.
func NewSnapshot() *SnapshotBuilder {
	return &SnapshotBuilder{
		snapshot: model.NewBrokerFinancialSnapshot(MakeAccountID(), "USD", Date(2024, 1, 2)),
	}
}

// From copies every field of s, including its id.
func (b *SnapshotBuilder) From(s model.BrokerFinancialSnapshot) *SnapshotBuilder {
	b.snapshot = s
	return b
}

// WithID sets a custom ID.
func (b *SnapshotBuilder) WithID(id string) *SnapshotBuilder {
	b.snapshot.ID = id
	return b
}

// WithAccount sets the broker account.
func (b *SnapshotBuilder) WithAccount(accountID string) *SnapshotBuilder {
	b.snapshot.BrokerAccountID = accountID
	return b
}

// WithCurrency sets the currency.
func (b *SnapshotBuilder) WithCurrency(currencyID string) *SnapshotBuilder {
	b.snapshot.CurrencyID = currencyID
	return b
}

// WithDate sets the snapshot date.
func (b *SnapshotBuilder) WithDate(date time.Time) *SnapshotBuilder {
	b.snapshot.Date = date.UTC().Truncate(24 * time.Hour)
	return b
}

func (b *SnapshotBuilder) WithDeposited(m money.Money) *SnapshotBuilder {
	b.snapshot.Deposited = m
	return b
}

func (b *SnapshotBuilder) WithWithdrawn(m money.Money) *SnapshotBuilder {
	b.snapshot.Withdrawn = m
	return b
}

// WithInvested sets Invested and leaves the percentages as they are.
func (b *SnapshotBuilder) WithInvested(m money.Money) *SnapshotBuilder {
	b.snapshot.Invested = m
	return b
}

// WithRealizedGains sets the gain and its percentage.
func (b *SnapshotBuilder) WithRealizedGains(m, percentage money.Money) *SnapshotBuilder {
	b.snapshot.RealizedGains = m
	b.snapshot.RealizedPercentage = percentage
	return b
}

// WithUnrealizedGains sets the gain and its percentage.
func (b *SnapshotBuilder) WithUnrealizedGains(m, percentage money.Money) *SnapshotBuilder {
	b.snapshot.UnrealizedGains = m
	b.snapshot.UnrealizedGainsPercentage = percentage
	return b
}

// WithIncome sets dividends, options income and other income.
func (b *SnapshotBuilder) WithIncome(dividends, options, other money.Money) *SnapshotBuilder {
	b.snapshot.DividendsReceived = dividends
	b.snapshot.OptionsIncome = options
	b.snapshot.OtherIncome = other
	return b
}

// WithCosts sets commissions and fees.
func (b *SnapshotBuilder) WithCosts(commissions, fees money.Money) *SnapshotBuilder {
	b.snapshot.Commissions = commissions
	b.snapshot.Fees = fees
	return b
}

func (b *SnapshotBuilder) WithMovementCounter(n int64) *SnapshotBuilder {
	b.snapshot.MovementCounter = n
	return b
}

func (b *SnapshotBuilder) WithOpenTrades(open bool) *SnapshotBuilder {
	b.snapshot.OpenTrades = open
	return b
}

func (b *SnapshotBuilder) WithNetCashFlow(m money.Money) *SnapshotBuilder {
	b.snapshot.NetCashFlow = m
	return b
}

// Snapshot returns the built value without touching the database.
func (b *SnapshotBuilder) Snapshot() model.BrokerFinancialSnapshot {
	return b.snapshot
}

// Build saves the snapshot in the database and returns it.
func (b *SnapshotBuilder) Build(t *testing.T, db *sql.DB) model.BrokerFinancialSnapshot {
	t.Helper()

	if err := repository.NewSnapshotRepository(db).Save(context.Background(), b.snapshot); err != nil {
		t.Fatalf("Failed to create test snapshot: %v", err)
	}

	return b.snapshot
}

// CreateStockPrice stores a close price for ticker in currencyID on date.
//
// Example usage:
//
//	testutil.CreateStockPrice(t, db, "AAPL", "USD", testutil.Date(2024, 1, 2), "185.64")
func CreateStockPrice(t *testing.T, db *sql.DB, ticker, currencyID string, date time.Time, price string) {
	t.Helper()

	err := repository.NewStockPriceRepository(db).SavePrice(context.Background(), ticker, currencyID, date, Money(price), "test")
	if err != nil {
		t.Fatalf("Failed to create test stock price: %v", err)
	}
}

// CountSnapshots returns the number of snapshot rows.
func CountSnapshots(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM broker_financial_snapshot").Scan(&n); err != nil {
		t.Fatalf("Failed to count snapshots: %v", err)
	}
	return n
}
