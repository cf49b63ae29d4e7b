// ABOUTME: Error types for the embedding gateway
// ABOUTME: Distinguishes service failures from fatal dimension mismatches
package embed

import "fmt"

// ServiceError wraps a failure of the external embedding service (network
// error, API error, or an unusable vector in the response). It is surfaced to
// the caller as-is; the gateway never retries on its own.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("embedding service: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// DimensionMismatchError reports a vector whose length differs from the
// dimension established by the first successful call of the session. A corpus
// with mixed dimensionality cannot be scored, so this aborts the enclosing
// build or query.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: expected %d, got %d", e.Want, e.Got)
}
