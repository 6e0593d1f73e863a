package weather

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a fetch did not settle before its deadline.
	ErrTimeout = errors.New("provider timed out")
	// ErrNetwork wraps transport-level failures (DNS, refused connections, resets).
	ErrNetwork = errors.New("network error")
	// ErrMalformedPayload means the provider answered but the body broke its contract.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrNoProvidersAvailable is signalled when every weather provider failed in a cycle.
	ErrNoProvidersAvailable = errors.New("no weather providers available")
	// ErrCycleInProgress is returned by Refresh when another cycle is still running.
	ErrCycleInProgress = errors.New("refresh cycle already in progress")
	// ErrNoStore is returned by Latest when the service was built without a store.
	ErrNoStore = errors.New("no result store configured")
)

// HTTPError reports a non-2xx answer from a provider.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d", e.Status)
}

// FailureKind is the tag attached to a failed fetch outcome.
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureNetwork   FailureKind = "network"
	FailureHTTP      FailureKind = "http"
	FailureMalformed FailureKind = "malformed"
	FailureOther     FailureKind = "other"
)

// Classify maps an error onto the failure taxonomy.
func Classify(err error) FailureKind {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, ErrMalformedPayload):
		return FailureMalformed
	case errors.As(err, &httpErr):
		return FailureHTTP
	case errors.Is(err, ErrNetwork):
		return FailureNetwork
	default:
		return FailureOther
	}
}

func malformed(provider ProviderID, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", provider, ErrMalformedPayload, fmt.Sprintf(format, args...))
}
