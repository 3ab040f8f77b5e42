package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/repository"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/testutil"
)

func TestStockPriceRepository_GetPriceOnOrBefore(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewStockPriceRepository(db)
	ticker := testutil.MakeTicker("AAPL")

	testutil.CreateStockPrice(t, db, ticker, "USD", testutil.Date(2024, 1, 2), "185.64")
	testutil.CreateStockPrice(t, db, ticker, "USD", testutil.Date(2024, 1, 5), "181.18")
	testutil.CreateStockPrice(t, db, ticker, "EUR", testutil.Date(2024, 1, 8), "165.00")

	tests := []struct {
		name string
		date int
		want string
	}{
		{"exact date", 2, "185.64"},
		{"weekend falls back", 7, "181.18"},
		{"other currency ignored", 9, "181.18"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetPriceOnOrBefore(ctx, ticker, "USD", testutil.Date(2024, 1, tt.date))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	t.Run("nothing before the first price", func(t *testing.T) {
		_, err := repo.GetPriceOnOrBefore(ctx, ticker, "USD", testutil.Date(2024, 1, 1))
		assert.ErrorIs(t, err, apperrors.ErrStockPriceNotFound)
	})

	t.Run("unknown ticker", func(t *testing.T) {
		_, err := repo.GetPriceOnOrBefore(ctx, "NOPE", "USD", testutil.Date(2024, 1, 9))
		assert.ErrorIs(t, err, apperrors.ErrStockPriceNotFound)
	})
}

func TestStockPriceRepository_SavePrice(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the price of the same day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewStockPriceRepository(db)
		date := testutil.Date(2024, 1, 2)

		require.NoError(t, repo.SavePrice(ctx, "MSFT", "USD", date, testutil.Money("370.00"), "yahoo"))
		require.NoError(t, repo.SavePrice(ctx, "MSFT", "USD", date, testutil.Money("370.87"), "manual"))

		got, err := repo.GetPriceOnOrBefore(ctx, "MSFT", "USD", date)
		require.NoError(t, err)
		assert.Equal(t, "370.87", got.String())

		var rows int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM stock_price WHERE ticker = 'MSFT'").Scan(&rows))
		assert.Equal(t, 1, rows)
	})

	t.Run("closed database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewStockPriceRepository(db)
		db.Close()

		err := repo.SavePrice(ctx, "MSFT", "USD", testutil.Date(2024, 1, 2), testutil.Money("1"), "test")
		assert.ErrorContains(t, err, "MSFT")
	})
}
