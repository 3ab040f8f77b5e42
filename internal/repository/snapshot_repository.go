package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/model"
)

const snapshotColumns = `
	id, broker_account_id, currency_id, date,
	deposited, withdrawn, invested, realized_gains, realized_percentage,
	unrealized_gains, unrealized_gains_percentage, dividends_received,
	options_income, other_income, commissions, fees,
	movement_counter, open_trades, net_cash_flow, created_at, updated_at`

// SnapshotRepository provides data access methods for the broker_financial_snapshot table.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new repository instance.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save writes a snapshot row. Existing rows (matched on id) are overwritten in full,
// new rows are inserted. The write is a single statement and therefore atomic for the row.
//
// Identity columns (broker_account_id, currency_id, date, created_at) are never changed by an update.
func (r *SnapshotRepository) Save(ctx context.Context, s model.BrokerFinancialSnapshot) error {
	query := `
		INSERT INTO broker_financial_snapshot (` + snapshotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			deposited = excluded.deposited,
			withdrawn = excluded.withdrawn,
			invested = excluded.invested,
			realized_gains = excluded.realized_gains,
			realized_percentage = excluded.realized_percentage,
			unrealized_gains = excluded.unrealized_gains,
			unrealized_gains_percentage = excluded.unrealized_gains_percentage,
			dividends_received = excluded.dividends_received,
			options_income = excluded.options_income,
			other_income = excluded.other_income,
			commissions = excluded.commissions,
			fees = excluded.fees,
			movement_counter = excluded.movement_counter,
			open_trades = excluded.open_trades,
			net_cash_flow = excluded.net_cash_flow,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.BrokerAccountID,
		s.CurrencyID,
		FormatDate(s.Date),
		s.Deposited,
		s.Withdrawn,
		s.Invested,
		s.RealizedGains,
		s.RealizedPercentage,
		s.UnrealizedGains,
		s.UnrealizedGainsPercentage,
		s.DividendsReceived,
		s.OptionsIncome,
		s.OtherIncome,
		s.Commissions,
		s.Fees,
		s.MovementCounter,
		s.OpenTrades,
		s.NetCashFlow,
		s.CreatedAt.UTC().Format(time.RFC3339),
		s.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", s.ID, err)
	}
	return nil
}

// GetByID retrieves a single snapshot by its id.
// Returns apperrors.ErrSnapshotNotFound if no row matches.
func (r *SnapshotRepository) GetByID(ctx context.Context, id string) (model.BrokerFinancialSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM broker_financial_snapshot WHERE id = ?`

	return r.getOne(ctx, query, id)
}

// GetSnapshot retrieves the snapshot of an account currency on an exact date.
// Returns apperrors.ErrSnapshotNotFound if no row matches.
func (r *SnapshotRepository) GetSnapshot(ctx context.Context, brokerAccountID, currencyID string, date time.Time) (model.BrokerFinancialSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM broker_financial_snapshot
		WHERE broker_account_id = ? AND currency_id = ? AND date = ?
	`

	return r.getOne(ctx, query, brokerAccountID, currencyID, FormatDate(date))
}

// GetPreviousSnapshot retrieves the most recent snapshot strictly before date.
// This is the accumulation baseline for date. Returns apperrors.ErrSnapshotNotFound
// when the account currency has no earlier history.
func (r *SnapshotRepository) GetPreviousSnapshot(ctx context.Context, brokerAccountID, currencyID string, date time.Time) (model.BrokerFinancialSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM broker_financial_snapshot
		WHERE broker_account_id = ? AND currency_id = ? AND date < ?
		ORDER BY date DESC
		LIMIT 1
	`

	return r.getOne(ctx, query, brokerAccountID, currencyID, FormatDate(date))
}

// GetSnapshotsForDate retrieves every snapshot (all accounts and currencies) on date.
func (r *SnapshotRepository) GetSnapshotsForDate(ctx context.Context, date time.Time) ([]model.BrokerFinancialSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM broker_financial_snapshot
		WHERE date = ?
		ORDER BY broker_account_id ASC, currency_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query broker_financial_snapshot: %w", err)
	}
	defer rows.Close()

	snapshots := []model.BrokerFinancialSnapshot{}
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating broker_financial_snapshot: %w", err)
	}

	return snapshots, nil
}

// GetSnapshotHistory streams the snapshots of an account currency between startDate and
// endDate (both inclusive) in ascending date order.
//
// The callback is invoked once per row; returning an error from it stops iteration and
// that error is returned unchanged.
func (r *SnapshotRepository) GetSnapshotHistory(
	ctx context.Context,
	brokerAccountID, currencyID string,
	startDate, endDate time.Time,
	callback func(snapshot model.BrokerFinancialSnapshot) error,
) error {
	query := `
		SELECT ` + snapshotColumns + `
		FROM broker_financial_snapshot
		WHERE broker_account_id = ? AND currency_id = ?
		AND date >= ?
		AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, brokerAccountID, currencyID, FormatDate(startDate), FormatDate(endDate))
	if err != nil {
		return fmt.Errorf("failed to query broker_financial_snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return err
		}
		if err := callback(s); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating broker_financial_snapshot: %w", err)
	}

	return nil
}

func (r *SnapshotRepository) getOne(ctx context.Context, query string, args ...any) (model.BrokerFinancialSnapshot, error) {
	s, err := scanSnapshot(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.BrokerFinancialSnapshot{}, apperrors.ErrSnapshotNotFound
	}
	if err != nil {
		return model.BrokerFinancialSnapshot{}, err
	}
	return s, nil
}

func scanSnapshot(row rowScanner) (model.BrokerFinancialSnapshot, error) {
	var s model.BrokerFinancialSnapshot
	var dateStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&s.ID,
		&s.BrokerAccountID,
		&s.CurrencyID,
		&dateStr,
		&s.Deposited,
		&s.Withdrawn,
		&s.Invested,
		&s.RealizedGains,
		&s.RealizedPercentage,
		&s.UnrealizedGains,
		&s.UnrealizedGainsPercentage,
		&s.DividendsReceived,
		&s.OptionsIncome,
		&s.OtherIncome,
		&s.Commissions,
		&s.Fees,
		&s.MovementCounter,
		&s.OpenTrades,
		&s.NetCashFlow,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return s, err
	}
	if err != nil {
		return s, fmt.Errorf("failed to scan broker_financial_snapshot row: %w", err)
	}

	if s.Date, err = ParseTime(dateStr); err != nil {
		return s, fmt.Errorf("failed to parse snapshot date: %w", err)
	}
	if s.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return s, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if s.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return s, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return s, nil
}
