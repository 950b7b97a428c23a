package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/arduinodayph/adph-merch/pkg/errors"
)

// QueryString returns the trimmed query value capped at maxLen bytes.
func QueryString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}

// ParseIndex parses a non-negative position taken from a path segment.
func ParseIndex(raw, field string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a non-negative integer").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
