package logger

import (
	"net/url"
	"strings"
)

// sensitiveParams are query parameters whose values must never reach logs.
var sensitiveParams = []string{
	"token",
	"password",
	"passwordconfirm",
	"passwordcurrent",
	"jwt",
	"secret",
}

// ContainsSensitiveQuery reports whether a raw query string carries any
// parameter that must be redacted before logging.
func ContainsSensitiveQuery(rawQuery string) bool {
	if rawQuery == "" {
		return false
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		// Unparseable query strings are treated as sensitive
		return true
	}

	for key := range values {
		lower := strings.ToLower(key)
		for _, sensitive := range sensitiveParams {
			if strings.Contains(lower, sensitive) {
				return true
			}
		}
	}
	return false
}
