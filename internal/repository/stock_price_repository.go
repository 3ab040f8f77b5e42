package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/money"
)

// StockPriceRepository provides data access methods for the stock_price table.
type StockPriceRepository struct {
	db *sql.DB
}

// NewStockPriceRepository creates a new repository instance.
func NewStockPriceRepository(db *sql.DB) *StockPriceRepository {
	return &StockPriceRepository{db: db}
}

// GetPriceOnOrBefore returns the latest close price of ticker quoted in currencyID on or before date.
// Returns apperrors.ErrStockPriceNotFound if no such price is stored.
func (r *StockPriceRepository) GetPriceOnOrBefore(ctx context.Context, ticker, currencyID string, date time.Time) (money.Money, error) {
	query := `
		SELECT close_price
		FROM stock_price
		WHERE ticker = ? AND currency_id = ? AND date <= ?
		ORDER BY date DESC
		LIMIT 1
	`

	var price money.Money
	err := r.db.QueryRowContext(ctx, query, ticker, currencyID, FormatDate(date)).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return money.Money{}, fmt.Errorf("%w: %s on %s", apperrors.ErrStockPriceNotFound, ticker, FormatDate(date))
	}
	if err != nil {
		return money.Money{}, fmt.Errorf("failed to query stock_price: %w", err)
	}

	return price, nil
}

// SavePrice stores a close price, replacing any existing price for the same ticker, currency and date.
func (r *StockPriceRepository) SavePrice(ctx context.Context, ticker, currencyID string, date time.Time, price money.Money, source string) error {
	query := `
		INSERT INTO stock_price (id, ticker, currency_id, date, close_price, source)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker, currency_id, date) DO UPDATE SET
			close_price = excluded.close_price,
			source = excluded.source
	`

	_, err := r.db.ExecContext(ctx, query, uuid.New().String(), ticker, currencyID, FormatDate(date), price, source)
	if err != nil {
		return fmt.Errorf("failed to save stock price for %s: %w", ticker, err)
	}
	return nil
}
