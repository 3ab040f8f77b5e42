package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/api/middleware"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/api/response"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/testutil"
)

// snapshotRoute mounts the middleware in front of a handler that records the id it was given.
func snapshotRoute(served *string) http.Handler {
	r := chi.NewRouter()
	r.With(middleware.ValidateUUIDMiddleware).
		Get("/api/snapshot/{uuid:[0-9a-fA-F-]{36}}", func(w http.ResponseWriter, r *http.Request) {
			*served = chi.URLParam(r, "uuid")
			response.RespondJSON(w, http.StatusOK, map[string]string{"id": *served})
		})
	return r
}

// TestValidateUUIDMiddleware checks which snapshot ids reach the snapshot handler.
//
// WHY: The handler passes the id straight to the repository. A malformed id must be
// answered with 400 rather than a lookup that reports 404.
func TestValidateUUIDMiddleware(t *testing.T) {
	t.Run("snapshot id reaches the handler", func(t *testing.T) {
		var served string
		id := testutil.MakeID()
		w := httptest.NewRecorder()

		snapshotRoute(&served).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/snapshot/"+id, nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, id, served)
	})

	t.Run("upper case id is accepted", func(t *testing.T) {
		var served string
		id := strings.ToUpper(testutil.MakeID())
		w := httptest.NewRecorder()

		snapshotRoute(&served).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/snapshot/"+id, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, id, served)
	})

	t.Run("malformed id is rejected before the handler", func(t *testing.T) {
		var served string
		id := testutil.MakeID()[:35] + "-"
		w := httptest.NewRecorder()

		snapshotRoute(&served).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/snapshot/"+id, nil))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, served)
		body := testutil.DecodeJSON[response.ErrorResponse](t, w)
		assert.Equal(t, "invalid UUID format", body.Error)
		assert.Contains(t, body.Details, id)
	})

	t.Run("missing id is rejected", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/snapshot/", map[string]string{"uuid": ""})
		w := httptest.NewRecorder()

		middleware.ValidateUUIDMiddleware(next).ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, called)
		body := testutil.DecodeJSON[response.ErrorResponse](t, w)
		assert.Equal(t, "valid UUID is required", body.Error)
	})
}
