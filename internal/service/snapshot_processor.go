package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/repository"
)

// Actions reported by ProcessPeriod.
const (
	ActionAccumulated = "accumulated"
	ActionCorrected   = "corrected"
	ActionUnchanged   = "unchanged"
)

// PeriodInput is one (account, currency, date) period to finalize.
type PeriodInput struct {
	BrokerAccountID string                           `json:"brokerAccountId"`
	CurrencyID      string                           `json:"currencyId"`
	Date            time.Time                        `json:"date"`
	Metrics         model.CalculatedFinancialMetrics `json:"metrics"`
}

func (p PeriodInput) key() model.SnapshotKey {
	return model.SnapshotKey{
		BrokerAccountID: p.BrokerAccountID,
		CurrencyID:      p.CurrencyID,
		Date:            repository.FormatDate(calendarDay(p.Date)),
	}
}

// calendarDay returns midnight UTC of the calendar date t shows in its own location.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ProcessResult reports what ProcessPeriod did for one period.
type ProcessResult struct {
	BrokerAccountID string `json:"brokerAccountId"`
	CurrencyID      string `json:"currencyId"`
	Date            string `json:"date"`
	SnapshotID      string `json:"snapshotId"`
	Action          string `json:"action"`
}

// SnapshotProcessor loads baselines and routes each period to the accumulator or the
// consistency corrector. It is the only writer of snapshots and owns the per-key
// serialization the SnapshotService requires.
type SnapshotProcessor struct {
	snapshotRepo    *repository.SnapshotRepository
	snapshotService *SnapshotService
	workers         int
	log             zerolog.Logger
}

// NewSnapshotProcessor creates a new SnapshotProcessor. workers bounds how many
// (account, currency) series a batch processes concurrently.
func NewSnapshotProcessor(
	snapshotRepo *repository.SnapshotRepository,
	snapshotService *SnapshotService,
	workers int,
	log zerolog.Logger,
) *SnapshotProcessor {
	if workers < 1 {
		workers = 1
	}
	return &SnapshotProcessor{
		snapshotRepo:    snapshotRepo,
		snapshotService: snapshotService,
		workers:         workers,
		log:             log.With().Str("component", "snapshot_processor").Logger(),
	}
}

// ProcessPeriod finalizes the snapshot of one period.
//
// The previous snapshot (latest strictly before the date) is the baseline; an account currency
// without history starts from an all-zero baseline. The snapshot on the date is loaded, or
// initialized with a fresh id when missing. Periods with movements are accumulated; periods
// without movements are checked for consistency against the baseline, which also carries the
// previous totals forward onto a newly initialized row.
func (p *SnapshotProcessor) ProcessPeriod(ctx context.Context, in PeriodInput) (ProcessResult, error) {
	if err := validatePeriod(in); err != nil {
		return ProcessResult{}, err
	}

	date := calendarDay(in.Date)

	previous, err := p.snapshotRepo.GetPreviousSnapshot(ctx, in.BrokerAccountID, in.CurrencyID, date)
	if errors.Is(err, apperrors.ErrSnapshotNotFound) {
		previous = model.BrokerFinancialSnapshot{}
	} else if err != nil {
		return ProcessResult{}, fmt.Errorf("failed to load previous snapshot: %w", err)
	}

	existing, err := p.snapshotRepo.GetSnapshot(ctx, in.BrokerAccountID, in.CurrencyID, date)
	if errors.Is(err, apperrors.ErrSnapshotNotFound) {
		existing = model.NewBrokerFinancialSnapshot(in.BrokerAccountID, in.CurrencyID, date)
	} else if err != nil {
		return ProcessResult{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	result := ProcessResult{
		BrokerAccountID: in.BrokerAccountID,
		CurrencyID:      in.CurrencyID,
		Date:            repository.FormatDate(date),
		SnapshotID:      existing.ID,
	}

	if in.Metrics.HasMovements() {
		if err := p.snapshotService.Update(ctx, existing, date, in.CurrencyID, in.Metrics, previous); err != nil {
			return ProcessResult{}, err
		}
		result.Action = ActionAccumulated
		return result, nil
	}

	corrected, err := p.snapshotService.SnapshotConsistency(ctx, previous, existing)
	if err != nil {
		return ProcessResult{}, err
	}
	result.Action = ActionUnchanged
	if corrected {
		result.Action = ActionCorrected
	}
	return result, nil
}

// ProcessBatch processes many periods. Periods of the same (account, currency) run in date
// order, since each date's baseline is the previous date's result; different series run
// concurrently, at most `workers` at a time.
//
// A batch naming the same (account, currency, date) twice is rejected before anything is
// written with apperrors.ErrDuplicateSnapshotKey. The first failure cancels the remaining work;
// periods already written stay written. Results are returned in input order.
func (p *SnapshotProcessor) ProcessBatch(ctx context.Context, inputs []PeriodInput) ([]ProcessResult, error) {
	type seriesKey struct{ account, currency string }

	seen := make(map[model.SnapshotKey]struct{}, len(inputs))
	series := make(map[seriesKey][]int)
	var order []seriesKey

	for i, in := range inputs {
		if err := validatePeriod(in); err != nil {
			return nil, fmt.Errorf("period %d: %w", i, err)
		}
		k := in.key()
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: %s/%s/%s", apperrors.ErrDuplicateSnapshotKey, k.BrokerAccountID, k.CurrencyID, k.Date)
		}
		seen[k] = struct{}{}

		sk := seriesKey{in.BrokerAccountID, in.CurrencyID}
		if _, ok := series[sk]; !ok {
			order = append(order, sk)
		}
		series[sk] = append(series[sk], i)
	}

	results := make([]ProcessResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, sk := range order {
		indexes := series[sk]
		sort.SliceStable(indexes, func(a, b int) bool {
			return calendarDay(inputs[indexes[a]].Date).Before(calendarDay(inputs[indexes[b]].Date))
		})

		g.Go(func() error {
			for _, i := range indexes {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := p.ProcessPeriod(gctx, inputs[i])
				if err != nil {
					return fmt.Errorf("%s/%s on %s: %w",
						sk.account, sk.currency, inputs[i].key().Date, err)
				}
				results[i] = res
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.log.Info().Int("periods", len(inputs)).Int("series", len(order)).Msg("Snapshot batch processed")
	return results, nil
}

// ConsistencySweep checks every snapshot dated date whose MovementCounter equals its previous
// snapshot's, meaning no movement contributed that day, and corrects any drift.
// Snapshots without a previous snapshot are skipped. Returns how many rows were rewritten.
func (p *SnapshotProcessor) ConsistencySweep(ctx context.Context, date time.Time) (int, error) {
	date = calendarDay(date)
	snapshots, err := p.snapshotRepo.GetSnapshotsForDate(ctx, date)
	if err != nil {
		return 0, err
	}

	corrected := 0
	for _, existing := range snapshots {
		previous, err := p.snapshotRepo.GetPreviousSnapshot(ctx, existing.BrokerAccountID, existing.CurrencyID, existing.Date)
		if errors.Is(err, apperrors.ErrSnapshotNotFound) {
			continue
		}
		if err != nil {
			return corrected, fmt.Errorf("failed to load previous snapshot for %s: %w", existing.ID, err)
		}

		if existing.MovementCounter != previous.MovementCounter {
			continue
		}

		changed, err := p.snapshotService.SnapshotConsistency(ctx, previous, existing)
		if err != nil {
			return corrected, err
		}
		if changed {
			corrected++
		}
	}

	p.log.Info().
		Str("date", repository.FormatDate(date)).
		Int("checked", len(snapshots)).
		Int("corrected", corrected).
		Msg("Consistency sweep finished")

	return corrected, nil
}

func validatePeriod(in PeriodInput) error {
	if in.BrokerAccountID == "" {
		return apperrors.ErrInvalidBrokerAccountID
	}
	if in.CurrencyID == "" {
		return apperrors.ErrInvalidCurrency
	}
	if in.Date.IsZero() {
		return apperrors.ErrInvalidDate
	}
	return nil
}
