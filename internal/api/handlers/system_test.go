package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/testutil"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/version"
)

func setupSystemHandler(t *testing.T) (*SystemHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewSystemHandler(testutil.NewTestSystemService(t, db)), db
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("returns healthy status when database is connected", func(t *testing.T) {
		handler, _ := setupSystemHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		response := testutil.DecodeJSON[HealthResponse](t, w)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "connected", response.Database)
		assert.Empty(t, response.Error)
	})

	t.Run("returns 503 when database is disconnected", func(t *testing.T) {
		handler, db := setupSystemHandler(t)

		// Close the database connection to simulate failure
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		response := testutil.DecodeJSON[HealthResponse](t, w)
		assert.Equal(t, "unhealthy", response.Status)
		assert.NotEmpty(t, response.Error)
	})
}

func TestSystemHandler_Version(t *testing.T) {
	t.Run("returns application and schema version", func(t *testing.T) {
		handler, _ := setupSystemHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
		w := httptest.NewRecorder()

		handler.Version(w, req)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		info := testutil.DecodeJSON[model.VersionInfo](t, w)
		assert.Equal(t, version.Version, info.AppVersion)
		assert.NotEmpty(t, info.DbVersion)
		assert.NotEqual(t, "0", info.DbVersion)
	})

	t.Run("returns 500 when the schema version cannot be read", func(t *testing.T) {
		handler, db := setupSystemHandler(t)
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
		w := httptest.NewRecorder()

		handler.Version(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
