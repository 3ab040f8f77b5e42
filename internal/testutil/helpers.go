package testutil

import (
	"context"
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/money"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/repository"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/service"
)

// Logger returns a logger that drops everything.
func Logger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

func NewTestQueryService(t *testing.T, db *sql.DB) *service.SnapshotQueryService {
	t.Helper()

	return service.NewSnapshotQueryService(repository.NewSnapshotRepository(db))
}

// NewTestUnrealizedGainsService values positions from the stock_price table only, or with
// fallback when it is non-nil.
func NewTestUnrealizedGainsService(t *testing.T, db *sql.DB, fallback service.PriceSource) *service.PriceUnrealizedGainsService {
	t.Helper()

	return service.NewPriceUnrealizedGainsService(repository.NewStockPriceRepository(db), fallback, Logger())
}

func NewTestSnapshotService(t *testing.T, db *sql.DB, gains service.UnrealizedGainsProvider) *service.SnapshotService {
	t.Helper()

	return service.NewSnapshotService(repository.NewSnapshotRepository(db), gains, Logger())
}

// NewTestSnapshotProcessor wires a processor against db. A nil gains provider values every
// position at zero gain.
func NewTestSnapshotProcessor(t *testing.T, db *sql.DB, gains service.UnrealizedGainsProvider, workers int) *service.SnapshotProcessor {
	t.Helper()

	if gains == nil {
		gains = StaticUnrealizedGains{}
	}
	snapshotRepo := repository.NewSnapshotRepository(db)

	return service.NewSnapshotProcessor(
		snapshotRepo,
		service.NewSnapshotService(snapshotRepo, gains, Logger()),
		workers,
		Logger(),
	)
}

// StaticUnrealizedGains is an UnrealizedGainsProvider returning a fixed result.
type StaticUnrealizedGains struct {
	Gains model.UnrealizedGains
	Err   error
}

func (s StaticUnrealizedGains) CalculateUnrealizedGains(
	_ context.Context,
	_ []model.StockPosition,
	_ model.CostBasisInfo,
	_ time.Time,
	_ string,
) (model.UnrealizedGains, error) {
	if s.Err != nil {
		return model.UnrealizedGains{}, s.Err
	}
	return s.Gains, nil
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Money parses a decimal literal; it panics on malformed input.
func Money(s string) money.Money {
	return money.MustParse(s)
}

// MakeID generates a new UUID string for testing.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeAccountID generates a unique broker account id for testing.
//
// Example usage:
//
//	id := testutil.MakeAccountID()
//	// Returns: "U1A2B3C4"
func MakeAccountID() string {
	return "U" + randomAlphanumeric(7)
}

// MakeTicker generates a stock ticker symbol for testing.
//
// Example usage:
//
//	ticker := testutil.MakeTicker("AAPL")
//	// Returns: "AAPL1A2B"
func MakeTicker(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
