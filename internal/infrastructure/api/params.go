package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const defaultPageSize = 50

// pagination reads limit and offset query parameters with sane bounds.
func pagination(r *http.Request) (limit, offset int64) {
	limit = queryInt64(r, "limit", defaultPageSize)
	if limit < 0 || limit > 500 {
		limit = defaultPageSize
	}
	offset = queryInt64(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func queryInt64(r *http.Request, key string, fallback int64) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

// decodeFields reads a partial-update body into a field map, stripping keys
// the caller must not set directly.
func decodeFields(r *http.Request) (map[string]any, error) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, err
	}
	delete(fields, "id")
	delete(fields, "_id")
	delete(fields, "sync")
	delete(fields, "created_at")
	delete(fields, "updated_at")
	return fields, nil
}
