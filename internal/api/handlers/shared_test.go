package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"calendar date", "2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), false},
		{"RFC3339 truncated to the day", "2024-01-02T18:45:00Z", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), false},
		{"offset converted to UTC first", "2024-01-02T23:30:00-02:00", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), false},
		{"not a date", "tomorrow", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

// TestDecodeJSON verifies request bodies are decoded strictly.
//
// WHY: A misspelled metrics field would otherwise decode as zero and be accumulated as such.
func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes known fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"U1"}`))
		var got payload

		require.NoError(t, decodeJSON(httptest.NewRecorder(), req, &got))
		assert.Equal(t, "U1", got.Name)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"U1","nmae":"U2"}`))
		var got payload

		assert.Error(t, decodeJSON(httptest.NewRecorder(), req, &got))
	})

	t.Run("rejects oversized bodies", func(t *testing.T) {
		body := `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var got payload

		assert.Error(t, decodeJSON(httptest.NewRecorder(), req, &got))
	})
}
