package predictor

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// #region constants

const maxRetries = 2 // max 2 retries = 3 total attempts

// #endregion

// #region should-retry

// shouldRetry reports whether a failed call is worth repeating. attempts
// counts every call made so far, including the one that returned err.
// Only transport-level failures are retried; a backend that rejected the
// query will reject it again.
func shouldRetry(err error, attempts int) bool {
	if err == nil || attempts > maxRetries {
		return false
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.Aborted:
		return true
	}
	return false
}

// #endregion
