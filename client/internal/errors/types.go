// Package errors provides the error taxonomy for the trips client SDK.
// Every failure surfaced by the API layer is an *APIError carrying its kind
// plus enough context (status code, raw body, cause) to diagnose it without
// retrying.
package errors

import (
	"errors"
	"fmt"
)

// ErrNotFound matches any HTTP 404 APIError via errors.Is.
var ErrNotFound = errors.New("not found")

// Kind identifies which stage of a call failed.
type Kind int

const (
	// KindInvalidURL means the base URL or trip id could not form a valid URL.
	KindInvalidURL Kind = iota
	// KindInvalidResponse means the transport did not yield an HTTP response.
	KindInvalidResponse
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
	// KindDecoding means the response body matched none of the known shapes.
	KindDecoding
	// KindEncoding means the request body could not be serialized.
	KindEncoding
	// KindNetwork wraps any other transport failure.
	KindNetwork
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "InvalidURL"
	case KindInvalidResponse:
		return "InvalidResponse"
	case KindHTTP:
		return "HTTPError"
	case KindDecoding:
		return "DecodingError"
	case KindEncoding:
		return "EncodingError"
	case KindNetwork:
		return "NetworkError"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// ErrorCategory determines how callers may treat an error when choosing a
// retry policy. The SDK itself never retries trip calls.
type ErrorCategory int

const (
	// Recoverable errors may succeed if retried later.
	// Examples: 500 Internal Server Error, 429, connection resets.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors will fail again without a change of input.
	// Examples: 400 Bad Request, 404 Not Found, malformed responses.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// APIError is the single error type returned by the trips API layer.
type APIError struct {
	Kind       Kind
	Op         string // operation name, e.g. "create trip"
	StatusCode int    // HTTP status code (0 unless Kind == KindHTTP)
	Body       string // raw response body for diagnostics, when available
	Err        error  // underlying cause
}

// Error renders the user-facing message for the error kind.
func (e *APIError) Error() string {
	switch e.Kind {
	case KindInvalidURL:
		return "Invalid URL"
	case KindInvalidResponse:
		return "Invalid response from server"
	case KindHTTP:
		return fmt.Sprintf("HTTP Error: %d", e.StatusCode)
	case KindDecoding:
		return fmt.Sprintf("Failed to decode response: %v", e.Err)
	case KindEncoding:
		return fmt.Sprintf("Failed to encode request: %v", e.Err)
	case KindNetwork:
		return fmt.Sprintf("Network error: %v", e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNotFound) match a 404 response.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindHTTP && e.StatusCode == 404
}

// Category classifies the error for retry decisions:
// - 4xx client errors (except 408 and 429) are irrecoverable
// - 5xx and unexpected statuses are recoverable
// - network-level errors are recoverable
// - URL, encoding and decoding failures are irrecoverable
func (e *APIError) Category() ErrorCategory {
	switch e.Kind {
	case KindHTTP:
		return httpErrorCategory(e.StatusCode)
	case KindNetwork, KindInvalidResponse:
		return Recoverable
	default:
		return Irrecoverable
	}
}

// Recoverable reports whether retrying the same call may succeed.
func (e *APIError) Recoverable() bool { return e.Category() == Recoverable }

// httpErrorCategory maps HTTP status codes to error categories.
func httpErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408, 429:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		// Unexpected status codes - be conservative and allow retry
		return Recoverable
	}
}

// As extracts an *APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *APIError of kind k.
func IsKind(err error, k Kind) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Kind == k
}

// IsIrrecoverable returns true if the error should not be retried.
// Errors outside the taxonomy are treated as recoverable.
func IsIrrecoverable(err error) bool {
	if apiErr, ok := As(err); ok {
		return apiErr.Category() == Irrecoverable
	}
	return false
}
