package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/repository"
)

// SnapshotQueryService serves read access to stored snapshots.
type SnapshotQueryService struct {
	snapshotRepo *repository.SnapshotRepository
}

// NewSnapshotQueryService creates a new SnapshotQueryService.
func NewSnapshotQueryService(snapshotRepo *repository.SnapshotRepository) *SnapshotQueryService {
	return &SnapshotQueryService{
		snapshotRepo: snapshotRepo,
	}
}

// GetSnapshot returns the snapshot with the given id, or apperrors.ErrSnapshotNotFound.
func (s *SnapshotQueryService) GetSnapshot(ctx context.Context, id string) (model.BrokerFinancialSnapshot, error) {
	return s.snapshotRepo.GetByID(ctx, id)
}

// GetSnapshotHistory returns the snapshots of one account currency between startDate and
// endDate inclusive, oldest first. Days without a snapshot are absent, not zero-filled.
func (s *SnapshotQueryService) GetSnapshotHistory(
	ctx context.Context,
	brokerAccountID, currencyID string,
	startDate, endDate time.Time,
) ([]model.BrokerFinancialSnapshot, error) {
	if startDate.After(endDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	history := []model.BrokerFinancialSnapshot{}
	err := s.snapshotRepo.GetSnapshotHistory(ctx, brokerAccountID, currencyID, startDate, endDate,
		func(snapshot model.BrokerFinancialSnapshot) error {
			history = append(history, snapshot)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHistory, err)
	}

	return history, nil
}
