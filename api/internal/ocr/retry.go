package ocr

import (
	"net/http"
	"time"
)

// RetryPolicy bounds repeated calls against the inference service.
// Sleep is injectable so the backoff schedule can be asserted in tests
// without real delays.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	Retryable   func(status int) bool
	Sleep       func(time.Duration)
}

// DefaultRetryPolicy: 5 attempts total, 2^i seconds before retry i,
// retrying only rate limiting and transient server failures.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		Backoff:     ExponentialBackoff,
		Retryable:   RetryableStatus,
		Sleep:       time.Sleep,
	}
}

// ExponentialBackoff returns 1s, 2s, 4s, 8s, ... for attempts 0, 1, 2, 3.
func ExponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// RetryableStatus reports whether an HTTP status is worth another try.
func RetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable:
		return true
	}
	return false
}

