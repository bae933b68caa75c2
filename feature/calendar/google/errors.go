package google

import (
	"errors"
	"net/http"

	"match-calendar/core/retry"

	"google.golang.org/api/googleapi"
)

var rateLimitReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
}

// classify marks API errors for the retry policy: 429, 5xx and 403 rate
// limits are transient, every other API status is permanent. Non-API errors
// are left to the default classifier.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests, apiErr.Code >= 500:
		return retry.MarkTransient(err)
	case apiErr.Code == http.StatusForbidden && rateLimited(apiErr):
		return retry.MarkTransient(err)
	default:
		return retry.MarkPermanent(err)
	}
}

func rateLimited(apiErr *googleapi.Error) bool {
	for _, item := range apiErr.Errors {
		if rateLimitReasons[item.Reason] {
			return true
		}
	}
	return false
}

func statusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

func isNotFound(err error) bool {
	code := statusCode(err)
	return code == http.StatusNotFound || code == http.StatusGone
}

func isConflict(err error) bool {
	return statusCode(err) == http.StatusConflict
}
