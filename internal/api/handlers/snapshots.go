package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/api/request"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/api/response"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/service"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/validation"
)

// SnapshotHandler handles snapshot-related HTTP requests
type SnapshotHandler struct {
	queryService *service.SnapshotQueryService
	processor    *service.SnapshotProcessor
}

// NewSnapshotHandler creates a new SnapshotHandler
func NewSnapshotHandler(queryService *service.SnapshotQueryService, processor *service.SnapshotProcessor) *SnapshotHandler {
	return &SnapshotHandler{
		queryService: queryService,
		processor:    processor,
	}
}

// Snapshot handles GET requests for a single snapshot.
//
// Endpoint: GET /api/snapshot/{uuid}
// Response: 200 OK with model.BrokerFinancialSnapshot
// Error: 404 Not Found when no snapshot has the id
func (h *SnapshotHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.queryService.GetSnapshot(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToRetrieveSnapshot.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshot)
}

// SnapshotHistory handles GET requests for the snapshots of one account currency.
//
// Endpoint: GET /api/snapshot/history?account_id=&currency=&start_date=&end_date=
// start_date defaults to 1970-01-01 and end_date to today.
// Response: 200 OK with []model.BrokerFinancialSnapshot, oldest first
// Error: 400 Bad Request for missing account or currency, malformed dates or start after end
func (h *SnapshotHandler) SnapshotHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	accountID := query.Get("account_id")
	if accountID == "" {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidBrokerAccountID.Error(), "")
		return
	}
	currencyID := query.Get("currency")
	if currencyID == "" {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidCurrency.Error(), "")
		return
	}

	startDate := time.Unix(0, 0).UTC()
	if v := query.Get("start_date"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "failed to parse start_date", err.Error())
			return
		}
		startDate = parsed
	}

	endDate := time.Now().UTC().Truncate(24 * time.Hour)
	if v := query.Get("end_date"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "failed to parse end_date", err.Error())
			return
		}
		endDate = parsed
	}

	if err := validation.ValidateDateRange(startDate, endDate); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
		return
	}

	history, err := h.queryService.GetSnapshotHistory(r.Context(), accountID, currencyID, startDate, endDate)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToRetrieveHistory.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}

// ProcessSnapshot handles POST requests finalizing one period.
//
// Endpoint: POST /api/snapshot/process
// Request: request.ProcessSnapshotRequest
// Response: 200 OK with service.ProcessResult
// Error: 400 Bad Request for invalid input, 500 when accumulation or persistence fails
func (h *SnapshotHandler) ProcessSnapshot(w http.ResponseWriter, r *http.Request) {
	var req request.ProcessSnapshotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := toPeriodInput(req)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToProcessSnapshot.Error())
		return
	}

	result, err := h.processor.ProcessPeriod(r.Context(), input)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToProcessSnapshot.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// ProcessSnapshotBatch handles POST requests finalizing many periods at once.
//
// Endpoint: POST /api/snapshot/process/batch
// Request: request.ProcessSnapshotBatchRequest
// Response: 200 OK with []service.ProcessResult in request order
// Error: 400 Bad Request for invalid input or a repeated (account, currency, date)
func (h *SnapshotHandler) ProcessSnapshotBatch(w http.ResponseWriter, r *http.Request) {
	var req request.ProcessSnapshotBatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	inputs := make([]service.PeriodInput, 0, len(req.Periods))
	for _, p := range req.Periods {
		input, err := toPeriodInput(p)
		if err != nil {
			response.RespondServiceError(w, err, apperrors.ErrFailedToProcessSnapshot.Error())
			return
		}
		inputs = append(inputs, input)
	}

	results, err := h.processor.ProcessBatch(r.Context(), inputs)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToProcessSnapshot.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, results)
}

// ConsistencyResponse reports the outcome of a consistency sweep.
type ConsistencyResponse struct {
	Date      string `json:"date"`
	Corrected int    `json:"corrected"`
}

// RunConsistency handles POST requests running the consistency sweep for one date.
//
// Endpoint: POST /api/snapshot/consistency?date=YYYY-MM-DD
// Response: 200 OK with ConsistencyResponse
func (h *SnapshotHandler) RunConsistency(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("date")
	if value == "" {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDate.Error(), "")
		return
	}
	date, err := parseDate(value)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "failed to parse date", err.Error())
		return
	}

	corrected, err := h.processor.ConsistencySweep(r.Context(), date)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToRunConsistency.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, ConsistencyResponse{
		Date:      date.Format("2006-01-02"),
		Corrected: corrected,
	})
}

func toPeriodInput(req request.ProcessSnapshotRequest) (service.PeriodInput, error) {
	if err := validation.ValidateProcessSnapshot(req); err != nil {
		return service.PeriodInput{}, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return service.PeriodInput{}, err
	}

	return service.PeriodInput{
		BrokerAccountID: req.BrokerAccountID,
		CurrencyID:      req.CurrencyID,
		Date:            date,
		Metrics:         req.Metrics,
	}, nil
}
