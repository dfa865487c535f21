package client

import (
	"errors"
	"fmt"
	"net/url"

	apierrors "github.com/Kayz-mann/trip-planner/client/internal/errors"
)

// APIError is the error type returned by every trip operation.
type APIError = apierrors.APIError

// ErrorKind identifies which stage of a call failed.
type ErrorKind = apierrors.Kind

// Error kinds.
const (
	KindInvalidURL      = apierrors.KindInvalidURL
	KindInvalidResponse = apierrors.KindInvalidResponse
	KindHTTP            = apierrors.KindHTTP
	KindDecoding        = apierrors.KindDecoding
	KindEncoding        = apierrors.KindEncoding
	KindNetwork         = apierrors.KindNetwork
)

// ErrBackPressure is returned when an internal shard queue is full.
var ErrBackPressure = errors.New("back-pressure (queue full)")

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// ErrNotFound matches a 404 from the backend: errors.Is(err, client.ErrNotFound).
var ErrNotFound = apierrors.ErrNotFound

// IsHTTPError reports whether err is a non-2xx response and returns its status.
func IsHTTPError(err error) (int, bool) {
	if apiErr, ok := apierrors.As(err); ok && apiErr.Kind == apierrors.KindHTTP {
		return apiErr.StatusCode, true
	}
	return 0, false
}

// IsDecodingError reports whether the response body matched no known shape.
func IsDecodingError(err error) bool { return apierrors.IsKind(err, apierrors.KindDecoding) }

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool { return apierrors.IsKind(err, apierrors.KindNetwork) }

// IsInvalidURL reports whether the base URL or id could not form a URL.
func IsInvalidURL(err error) bool { return apierrors.IsKind(err, apierrors.KindInvalidURL) }

// IsEncodingError reports whether the request body could not be serialized.
func IsEncodingError(err error) bool { return apierrors.IsKind(err, apierrors.KindEncoding) }

// IsInvalidResponse reports whether the transport yielded no HTTP response.
func IsInvalidResponse(err error) bool {
	return apierrors.IsKind(err, apierrors.KindInvalidResponse)
}

// IsRecoverable reports whether retrying the same call may succeed.
// Errors outside the SDK taxonomy are treated as recoverable.
func IsRecoverable(err error) bool { return err != nil && !apierrors.IsIrrecoverable(err) }

// ValidateBaseURL checks that raw is an absolute https URL. New only warns
// on failure; plain http is still usable against local mocks.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("base url %q has no host", raw)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("base url %q uses scheme %q, want https", raw, u.Scheme)
	}
	return nil
}
