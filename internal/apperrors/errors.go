package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrSnapshotNotFound indicates that no snapshot exists for the given id or (account, currency, date).
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrStockPriceNotFound indicates no stored or fetchable close price for a ticker on or before a date.
	ErrStockPriceNotFound = errors.New("stock price not found")

	// ErrCostBasisNotFound indicates an open position without cost basis information.
	ErrCostBasisNotFound = errors.New("cost basis not found for position")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidOptionCode indicates an option trade code outside the supported set.
	ErrInvalidOptionCode = errors.New("invalid option code")

	// ErrInvalidOptionType indicates an option type other than call or put.
	ErrInvalidOptionType = errors.New("invalid option type")

	// ErrDuplicateSnapshotKey indicates that a batch contains the same (account, currency, date)
	// more than once. Snapshot writes must be serialized per key.
	ErrDuplicateSnapshotKey = errors.New("duplicate snapshot key in batch")

	// Validation errors for required fields
	ErrInvalidBrokerAccountID = errors.New("broker account ID is required")
	ErrInvalidCurrency        = errors.New("currency parameter is required")
	ErrInvalidDate            = errors.New("date parameter is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	ErrFailedToRetrieveSnapshot = errors.New("failed to retrieve snapshot")
	ErrFailedToRetrieveHistory  = errors.New("failed to retrieve snapshot history")
	ErrFailedToProcessSnapshot  = errors.New("failed to process snapshot")
	ErrFailedToRunConsistency   = errors.New("failed to run consistency sweep")
	ErrFailedToGetVersionInfo   = errors.New("failed to get version information")
	ErrFailedToCalculateCapital = errors.New("failed to calculate capital deployed")
)
