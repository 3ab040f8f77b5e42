package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/money"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/repository"
)

// UnrealizedGainsProvider marks open stock positions to market.
type UnrealizedGainsProvider interface {
	CalculateUnrealizedGains(
		ctx context.Context,
		positions []model.StockPosition,
		costBasis model.CostBasisInfo,
		date time.Time,
		currencyID string,
	) (model.UnrealizedGains, error)
}

// PriceSource fetches a close price from an external market data provider.
// It returns the price and the currency the provider quotes it in.
type PriceSource interface {
	GetClosePriceOnOrBefore(ctx context.Context, symbol string, date time.Time) (decimal.Decimal, string, error)
}

// PriceUnrealizedGainsService values positions with stored close prices, falling back to an
// external PriceSource and caching whatever it returns.
type PriceUnrealizedGainsService struct {
	prices   *repository.StockPriceRepository
	fallback PriceSource
	log      zerolog.Logger
}

// NewPriceUnrealizedGainsService creates the provider. fallback may be nil, in which case only
// stored prices are used.
func NewPriceUnrealizedGainsService(prices *repository.StockPriceRepository, fallback PriceSource, log zerolog.Logger) *PriceUnrealizedGainsService {
	return &PriceUnrealizedGainsService{
		prices:   prices,
		fallback: fallback,
		log:      log.With().Str("component", "unrealized_gains").Logger(),
	}
}

// CalculateUnrealizedGains returns the summed (market value - cost basis) of every non-zero
// position and that gain as a percentage of the summed cost basis (zero when cost <= 0).
//
// A position without cost basis or without any price on or before date fails the whole call.
func (s *PriceUnrealizedGainsService) CalculateUnrealizedGains(
	ctx context.Context,
	positions []model.StockPosition,
	costBasis model.CostBasisInfo,
	date time.Time,
	currencyID string,
) (model.UnrealizedGains, error) {
	totalGain := money.Zero()
	totalCost := money.Zero()

	for _, position := range positions {
		if position.Quantity.IsZero() {
			continue
		}

		basis, ok := costBasis[position.Ticker]
		if !ok {
			return model.UnrealizedGains{}, fmt.Errorf("%w: %s", apperrors.ErrCostBasisNotFound, position.Ticker)
		}

		price, err := s.closePrice(ctx, position.Ticker, currencyID, date)
		if err != nil {
			return model.UnrealizedGains{}, err
		}

		marketValue := price.Mul(position.Quantity)
		totalGain = totalGain.Add(marketValue.Sub(basis.TotalCost))
		totalCost = totalCost.Add(basis.TotalCost)
	}

	return model.UnrealizedGains{
		Amount:     totalGain,
		Percentage: totalGain.PercentageOf(totalCost),
	}, nil
}

func (s *PriceUnrealizedGainsService) closePrice(ctx context.Context, ticker, currencyID string, date time.Time) (money.Money, error) {
	price, err := s.prices.GetPriceOnOrBefore(ctx, ticker, currencyID, date)
	if err == nil {
		return price, nil
	}
	if !errors.Is(err, apperrors.ErrStockPriceNotFound) || s.fallback == nil {
		return money.Money{}, err
	}

	fetched, quoteCurrency, err := s.fallback.GetClosePriceOnOrBefore(ctx, ticker, date)
	if err != nil {
		return money.Money{}, fmt.Errorf("%w: %s: %w", apperrors.ErrStockPriceNotFound, ticker, err)
	}
	if !strings.EqualFold(quoteCurrency, currencyID) {
		return money.Money{}, fmt.Errorf("%w: %s quoted in %s, not %s", apperrors.ErrStockPriceNotFound, ticker, quoteCurrency, currencyID)
	}

	price = money.New(fetched)
	if err := s.prices.SavePrice(ctx, ticker, currencyID, date, price, "yahoo"); err != nil {
		// The price is still usable for this calculation.
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to cache fetched price")
	} else {
		s.log.Debug().Str("ticker", ticker).Str("price", price.String()).Msg("Cached fetched price")
	}

	return price, nil
}
