package errors

import "fmt"

// NewInvalidURL reports a URL that could not be built for op.
func NewInvalidURL(op, raw string, cause error) *APIError {
	if cause == nil {
		cause = fmt.Errorf("invalid url %q", raw)
	}
	return &APIError{Kind: KindInvalidURL, Op: op, Err: cause}
}

// NewInvalidResponse reports a transport that returned no HTTP response.
func NewInvalidResponse(op string) *APIError {
	return &APIError{Kind: KindInvalidResponse, Op: op, Err: fmt.Errorf("%s: no http response", op)}
}

// NewHTTPError creates an error for a non-2xx status. body is kept for debugging.
func NewHTTPError(op string, statusCode int, body string) *APIError {
	return &APIError{
		Kind:       KindHTTP,
		Op:         op,
		StatusCode: statusCode,
		Body:       body,
		Err:        fmt.Errorf("%s failed: HTTP %d", op, statusCode),
	}
}

// NewDecodingError creates an error for a body that matched no known shape.
func NewDecodingError(op string, body string, cause error) *APIError {
	return &APIError{Kind: KindDecoding, Op: op, Body: body, Err: cause}
}

// NewEncodingError creates an error for a request body that could not be serialized.
func NewEncodingError(op string, cause error) *APIError {
	return &APIError{Kind: KindEncoding, Op: op, Err: cause}
}

// NewNetworkError creates an error for a transport-level failure.
func NewNetworkError(op string, cause error) *APIError {
	return &APIError{Kind: KindNetwork, Op: op, Err: fmt.Errorf("%s network error: %w", op, cause)}
}
