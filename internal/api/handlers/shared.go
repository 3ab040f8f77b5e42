package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/repository"
)

// maxBodyBytes bounds request bodies; a batch of a few thousand periods fits comfortably.
const maxBodyBytes = 8 << 20

// parseDate accepts YYYY-MM-DD or RFC3339 and returns the UTC day.
func parseDate(value string) (time.Time, error) {
	date, err := repository.ParseTime(value)
	if err != nil {
		return time.Time{}, err
	}
	return date.Truncate(24 * time.Hour), nil
}

// decodeJSON decodes a size-limited request body, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
