package utils

import (
	"net/http"
	"strconv"
)

// QueryInt returns the integer query parameter key, or def when it is missing or not a
// number.
func QueryInt(r *http.Request, key string, def int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}
