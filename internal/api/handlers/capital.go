package handlers

import (
	"net/http"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/api/request"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/api/response"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/service"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/validation"
)

// CapitalHandler handles capital deployed calculations
type CapitalHandler struct{}

// NewCapitalHandler creates a new CapitalHandler
func NewCapitalHandler() *CapitalHandler {
	return &CapitalHandler{}
}

// CapitalDeployed handles POST requests computing the capital a set of trades commits.
//
// Endpoint: POST /api/capital-deployed
// Request: request.CapitalDeployedRequest
// Response: 200 OK with service.CapitalDeployedReport
// Error: 400 Bad Request for unknown option codes or types
func (h *CapitalHandler) CapitalDeployed(w http.ResponseWriter, r *http.Request) {
	var req request.CapitalDeployedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	optionTrades, err := validation.ValidateCapitalDeployed(req)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToCalculateCapital.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, service.BuildCapitalDeployedReport(optionTrades, req.StockTrades))
}
