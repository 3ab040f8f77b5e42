package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/api/request"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/api/response"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/service"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/testutil"
)

func setupSnapshotHandler(t *testing.T) (*SnapshotHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewSnapshotHandler(
		testutil.NewTestQueryService(t, db),
		testutil.NewTestSnapshotProcessor(t, db, nil, 2),
	), db
}

func TestSnapshotHandler_Snapshot(t *testing.T) {
	t.Run("returns the snapshot", func(t *testing.T) {
		handler, db := setupSnapshotHandler(t)
		snapshot := testutil.NewSnapshot().WithDeposited(testutil.Money("1500.25")).Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/snapshot/"+snapshot.ID,
			map[string]string{"uuid": snapshot.ID})
		w := httptest.NewRecorder()

		handler.Snapshot(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := testutil.DecodeJSON[model.BrokerFinancialSnapshot](t, w)
		assert.Equal(t, snapshot.ID, got.ID)
		assert.Equal(t, "1500.25", got.Deposited.String())
	})

	t.Run("returns 404 for an unknown id", func(t *testing.T) {
		handler, _ := setupSnapshotHandler(t)
		id := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/snapshot/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.Snapshot(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSnapshotHandler_SnapshotHistory(t *testing.T) {
	handler, db := setupSnapshotHandler(t)
	account := testutil.MakeAccountID()
	for _, day := range []int{2, 3, 4} {
		testutil.NewSnapshot().WithAccount(account).WithDate(testutil.Date(2024, 1, day)).Build(t, db)
	}

	tests := []struct {
		name       string
		params     map[string]string
		wantStatus int
		wantCount  int
	}{
		{
			name:       "defaults cover all history",
			params:     map[string]string{"account_id": account, "currency": "USD"},
			wantStatus: http.StatusOK,
			wantCount:  3,
		},
		{
			name:       "bounded range",
			params:     map[string]string{"account_id": account, "currency": "USD", "start_date": "2024-01-03", "end_date": "2024-01-03"},
			wantStatus: http.StatusOK,
			wantCount:  1,
		},
		{
			name:       "unknown account is empty",
			params:     map[string]string{"account_id": "U0000000", "currency": "USD"},
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
		{
			name:       "missing account",
			params:     map[string]string{"currency": "USD"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing currency",
			params:     map[string]string{"account_id": account},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed start date",
			params:     map[string]string{"account_id": account, "currency": "USD", "start_date": "01/02/2024"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "start after end",
			params:     map[string]string{"account_id": account, "currency": "USD", "start_date": "2024-02-01", "end_date": "2024-01-01"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/snapshot/history", tt.params)
			w := httptest.NewRecorder()

			handler.SnapshotHistory(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				history := testutil.DecodeJSON[[]model.BrokerFinancialSnapshot](t, w)
				assert.Len(t, history, tt.wantCount)
			}
		})
	}
}

// TestSnapshotHandler_ProcessSnapshot covers the request path into the processor.
//
// WHY: The endpoint is how the movement pipeline hands over a period. Bad input must be
// rejected with field errors before anything is written.
func TestSnapshotHandler_ProcessSnapshot(t *testing.T) {
	t.Run("accumulates a period", func(t *testing.T) {
		handler, db := setupSnapshotHandler(t)
		account := testutil.MakeAccountID()

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/snapshot/process", request.ProcessSnapshotRequest{
			BrokerAccountID: account,
			CurrencyID:      "USD",
			Date:            "2024-01-02",
			Metrics: model.CalculatedFinancialMetrics{
				Deposited:       testutil.Money("2500"),
				MovementCounter: 1,
			},
		})
		w := httptest.NewRecorder()

		handler.ProcessSnapshot(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		result := testutil.DecodeJSON[service.ProcessResult](t, w)
		assert.Equal(t, service.ActionAccumulated, result.Action)
		assert.Equal(t, "2024-01-02", result.Date)
		assert.NotEmpty(t, result.SnapshotID)
		assert.Equal(t, 1, testutil.CountSnapshots(t, db))
	})

	t.Run("accepts bare numbers for amounts", func(t *testing.T) {
		handler, _ := setupSnapshotHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/snapshot/process",
			`{"brokerAccountId":"U7654321","currencyId":"EUR","date":"2024-01-02","metrics":{"fees":1.5,"movementCounter":1}}`)
		w := httptest.NewRecorder()

		handler.ProcessSnapshot(w, req)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("returns field errors", func(t *testing.T) {
		handler, db := setupSnapshotHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/snapshot/process", request.ProcessSnapshotRequest{
			Date: "2024-13-01",
		})
		w := httptest.NewRecorder()

		handler.ProcessSnapshot(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := testutil.DecodeJSON[struct {
			Error   string            `json:"error"`
			Details map[string]string `json:"details"`
		}](t, w)
		assert.Equal(t, "validation failed", body.Error)
		assert.Contains(t, body.Details, "brokerAccountId")
		assert.Contains(t, body.Details, "currencyId")
		assert.Contains(t, body.Details, "date")
		assert.Equal(t, 0, testutil.CountSnapshots(t, db))
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		handler, _ := setupSnapshotHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/snapshot/process",
			`{"brokerAccountId":"U1","currencyId":"USD","date":"2024-01-02","bogus":true}`)
		w := httptest.NewRecorder()

		handler.ProcessSnapshot(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		handler, _ := setupSnapshotHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/snapshot/process", `{"brokerAccountId":`)
		w := httptest.NewRecorder()

		handler.ProcessSnapshot(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := testutil.DecodeJSON[response.ErrorResponse](t, w)
		assert.Equal(t, "invalid request body", body.Error)
	})
}

func TestSnapshotHandler_ProcessSnapshotBatch(t *testing.T) {
	metrics := model.CalculatedFinancialMetrics{Invested: testutil.Money("100"), MovementCounter: 1}

	t.Run("processes the batch in request order", func(t *testing.T) {
		handler, _ := setupSnapshotHandler(t)
		account := testutil.MakeAccountID()

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/snapshot/process/batch", request.ProcessSnapshotBatchRequest{
			Periods: []request.ProcessSnapshotRequest{
				{BrokerAccountID: account, CurrencyID: "USD", Date: "2024-01-03", Metrics: metrics},
				{BrokerAccountID: account, CurrencyID: "USD", Date: "2024-01-02", Metrics: metrics},
			},
		})
		w := httptest.NewRecorder()

		handler.ProcessSnapshotBatch(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		results := testutil.DecodeJSON[[]service.ProcessResult](t, w)
		require.Len(t, results, 2)
		assert.Equal(t, "2024-01-03", results[0].Date)
		assert.Equal(t, "2024-01-02", results[1].Date)
	})

	t.Run("rejects a repeated key", func(t *testing.T) {
		handler, db := setupSnapshotHandler(t)
		account := testutil.MakeAccountID()

		period := request.ProcessSnapshotRequest{BrokerAccountID: account, CurrencyID: "USD", Date: "2024-01-02", Metrics: metrics}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/snapshot/process/batch", request.ProcessSnapshotBatchRequest{
			Periods: []request.ProcessSnapshotRequest{period, period},
		})
		w := httptest.NewRecorder()

		handler.ProcessSnapshotBatch(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "duplicate snapshot key")
		assert.Equal(t, 0, testutil.CountSnapshots(t, db))
	})

	t.Run("rejects an invalid period", func(t *testing.T) {
		handler, _ := setupSnapshotHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/snapshot/process/batch", request.ProcessSnapshotBatchRequest{
			Periods: []request.ProcessSnapshotRequest{{CurrencyID: "USD", Date: "2024-01-02"}},
		})
		w := httptest.NewRecorder()

		handler.ProcessSnapshotBatch(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSnapshotHandler_RunConsistency(t *testing.T) {
	t.Run("reports corrected rows", func(t *testing.T) {
		handler, db := setupSnapshotHandler(t)
		account := testutil.MakeAccountID()

		testutil.NewSnapshot().WithAccount(account).WithDate(testutil.Date(2024, 1, 2)).
			WithInvested(testutil.Money("100")).WithMovementCounter(2).Build(t, db)
		testutil.NewSnapshot().WithAccount(account).WithDate(testutil.Date(2024, 1, 3)).
			WithInvested(testutil.Money("90")).WithMovementCounter(2).Build(t, db)

		req := testutil.NewRequestWithQueryParams(http.MethodPost, "/api/snapshot/consistency",
			map[string]string{"date": "2024-01-03"})
		w := httptest.NewRecorder()

		handler.RunConsistency(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := testutil.DecodeJSON[ConsistencyResponse](t, w)
		assert.Equal(t, ConsistencyResponse{Date: "2024-01-03", Corrected: 1}, got)
	})

	t.Run("requires a date", func(t *testing.T) {
		handler, _ := setupSnapshotHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/snapshot/consistency", nil)
		w := httptest.NewRecorder()

		handler.RunConsistency(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		handler, _ := setupSnapshotHandler(t)

		req := testutil.NewRequestWithQueryParams(http.MethodPost, "/api/snapshot/consistency",
			map[string]string{"date": "yesterday"})
		w := httptest.NewRecorder()

		handler.RunConsistency(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
