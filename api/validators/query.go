package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryString returns the trimmed query value capped at maxLen.
func ParseQueryString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}

// ParseQueryRaw returns the query value untouched. Search text keeps its
// whitespace until the catalog decides what to do with it, so a value longer
// than maxLen is rejected rather than cut.
func ParseQueryRaw(r *http.Request, key string, maxLen int) (string, error) {
	value := r.URL.Query().Get(key)
	if maxLen > 0 && len(value) > maxLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter too long").WithDetails(map[string]any{"field": key, "max": maxLen})
	}
	return value, nil
}

// ParseQueryLower is ParseQueryString folded to lower case, used for enum
// style parameters such as sort keys.
func ParseQueryLower(r *http.Request, key string, maxLen int) string {
	return strings.ToLower(ParseQueryString(r, key, maxLen))
}
