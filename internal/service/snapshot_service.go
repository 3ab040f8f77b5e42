package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/model"
)

// SnapshotStore persists a snapshot row. A single Save must be atomic for that row.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot model.BrokerFinancialSnapshot) error
}

// SnapshotService maintains the cumulative broker financial snapshots.
//
// It accumulates period metrics onto the previous snapshot (Update) and repairs drift
// between consecutive snapshots when a period had no movements (SnapshotConsistency).
//
// Callers must serialize calls per (account, currency, date): neither operation locks,
// both read a baseline and write a row, and neither is idempotent. Re-running Update with
// the same metrics counts every additive field twice.
type SnapshotService struct {
	store           SnapshotStore
	unrealizedGains UnrealizedGainsProvider
	log             zerolog.Logger
	now             func() time.Time
}

// NewSnapshotService creates a new SnapshotService with the provided dependencies.
func NewSnapshotService(store SnapshotStore, unrealizedGains UnrealizedGainsProvider, log zerolog.Logger) *SnapshotService {
	return &SnapshotService{
		store:           store,
		unrealizedGains: unrealizedGains,
		log:             log.With().Str("component", "snapshot").Logger(),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Update accumulates one period of metrics onto previous and persists the result as a new
// version of existing.
//
// Calculation:
//  1. Each additive field (Deposited, Withdrawn, Invested, RealizedGains, DividendsReceived,
//     OptionsIncome, OtherIncome, Commissions, Fees) becomes previous + metrics.
//  2. MovementCounter becomes previous + metrics.
//  3. Stock unrealized gains come from the UnrealizedGainsProvider for targetDate/currencyID;
//     the provider's percentage is ignored.
//  4. Total unrealized gains = stock unrealized gains + metrics.OptionUnrealizedGains.
//  5. Both percentages are gain / new Invested * 100, or zero when new Invested <= 0.
//  6. OpenTrades is metrics.HasOpenPositions.
//
// The row keeps the id, identity and audit fields of existing; existing itself is not modified.
// NetCashFlow is carried over unchanged. Exactly one Save is issued. Provider and persistence
// failures are returned wrapped and nothing is written when the provider fails.
func (s *SnapshotService) Update(
	ctx context.Context,
	existing model.BrokerFinancialSnapshot,
	targetDate time.Time,
	currencyID string,
	metrics model.CalculatedFinancialMetrics,
	previous model.BrokerFinancialSnapshot,
) error {
	deposited := previous.Deposited.Add(metrics.Deposited)
	withdrawn := previous.Withdrawn.Add(metrics.Withdrawn)
	invested := previous.Invested.Add(metrics.Invested)
	realizedGains := previous.RealizedGains.Add(metrics.RealizedGains)
	dividendsReceived := previous.DividendsReceived.Add(metrics.DividendsReceived)
	optionsIncome := previous.OptionsIncome.Add(metrics.OptionsIncome)
	otherIncome := previous.OtherIncome.Add(metrics.OtherIncome)
	commissions := previous.Commissions.Add(metrics.Commissions)
	fees := previous.Fees.Add(metrics.Fees)
	movementCounter := previous.MovementCounter + metrics.MovementCounter

	stockGains, err := s.unrealizedGains.CalculateUnrealizedGains(
		ctx,
		metrics.CurrentPositions,
		metrics.CostBasisInfo,
		targetDate,
		currencyID,
	)
	if err != nil {
		return fmt.Errorf("failed to calculate unrealized gains for %s on %s: %w",
			currencyID, targetDate.Format("2006-01-02"), err)
	}

	totalUnrealizedGains := stockGains.Amount.Add(metrics.OptionUnrealizedGains)

	updated := existing
	updated.MovementCounter = movementCounter
	updated.RealizedGains = realizedGains
	updated.RealizedPercentage = realizedGains.PercentageOf(invested)
	updated.UnrealizedGains = totalUnrealizedGains
	updated.UnrealizedGainsPercentage = totalUnrealizedGains.PercentageOf(invested)
	updated.Invested = invested
	updated.Commissions = commissions
	updated.Fees = fees
	updated.Deposited = deposited
	updated.Withdrawn = withdrawn
	updated.DividendsReceived = dividendsReceived
	updated.OptionsIncome = optionsIncome
	updated.OtherIncome = otherIncome
	updated.OpenTrades = metrics.HasOpenPositions
	updated.UpdatedAt = s.now()

	if err := s.store.Save(ctx, updated); err != nil {
		return fmt.Errorf("failed to persist snapshot %s: %w", updated.ID, err)
	}

	s.log.Debug().
		Str("snapshot_id", updated.ID).
		Str("currency", currencyID).
		Str("date", targetDate.Format("2006-01-02")).
		Int64("movements", metrics.MovementCounter).
		Msg("Snapshot accumulated")

	return nil
}

// SnapshotConsistency makes existing match previous for a period without movements.
//
// Fifteen financial fields are compared. If any differs, all fifteen are copied from previous
// onto a copy of existing (identity preserved) and that copy is saved once; the returned bool
// is true. If none differs nothing is written.
//
// The overwrite is all-or-nothing: fields that already matched are rewritten too. This is the
// inherited correction policy; a per-field patch was never confirmed as the intent, so do not
// narrow it without that confirmation.
func (s *SnapshotService) SnapshotConsistency(ctx context.Context, previous, existing model.BrokerFinancialSnapshot) (bool, error) {
	diffs := differingFields(previous, existing)
	if len(diffs) == 0 {
		return false, nil
	}

	corrected := existing
	corrected.RealizedGains = previous.RealizedGains
	corrected.RealizedPercentage = previous.RealizedPercentage
	corrected.UnrealizedGains = previous.UnrealizedGains
	corrected.UnrealizedGainsPercentage = previous.UnrealizedGainsPercentage
	corrected.Invested = previous.Invested
	corrected.Commissions = previous.Commissions
	corrected.Fees = previous.Fees
	corrected.Deposited = previous.Deposited
	corrected.Withdrawn = previous.Withdrawn
	corrected.DividendsReceived = previous.DividendsReceived
	corrected.OptionsIncome = previous.OptionsIncome
	corrected.OtherIncome = previous.OtherIncome
	corrected.OpenTrades = previous.OpenTrades
	corrected.MovementCounter = previous.MovementCounter
	corrected.NetCashFlow = previous.NetCashFlow
	corrected.UpdatedAt = s.now()

	if err := s.store.Save(ctx, corrected); err != nil {
		return false, fmt.Errorf("failed to persist corrected snapshot %s: %w", corrected.ID, err)
	}

	s.log.Warn().
		Str("snapshot_id", corrected.ID).
		Str("currency", corrected.CurrencyID).
		Str("date", corrected.Date.Format("2006-01-02")).
		Strs("fields", diffs).
		Msg("Snapshot drift corrected")

	return true, nil
}

// differingFields names the compared fields whose values differ between a and b.
func differingFields(a, b model.BrokerFinancialSnapshot) []string {
	checks := []struct {
		name  string
		equal bool
	}{
		{"RealizedGains", a.RealizedGains.Equal(b.RealizedGains)},
		{"RealizedPercentage", a.RealizedPercentage.Equal(b.RealizedPercentage)},
		{"UnrealizedGains", a.UnrealizedGains.Equal(b.UnrealizedGains)},
		{"UnrealizedGainsPercentage", a.UnrealizedGainsPercentage.Equal(b.UnrealizedGainsPercentage)},
		{"Invested", a.Invested.Equal(b.Invested)},
		{"Commissions", a.Commissions.Equal(b.Commissions)},
		{"Fees", a.Fees.Equal(b.Fees)},
		{"Deposited", a.Deposited.Equal(b.Deposited)},
		{"Withdrawn", a.Withdrawn.Equal(b.Withdrawn)},
		{"DividendsReceived", a.DividendsReceived.Equal(b.DividendsReceived)},
		{"OptionsIncome", a.OptionsIncome.Equal(b.OptionsIncome)},
		{"OtherIncome", a.OtherIncome.Equal(b.OtherIncome)},
		{"OpenTrades", a.OpenTrades == b.OpenTrades},
		{"MovementCounter", a.MovementCounter == b.MovementCounter},
		{"NetCashFlow", a.NetCashFlow.Equal(b.NetCashFlow)},
	}

	var diffs []string
	for _, c := range checks {
		if !c.equal {
			diffs = append(diffs, c.name)
		}
	}
	return diffs
}
