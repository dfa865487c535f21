package types

import (
	"net/http"
)

// ------------------------------
// Shared Interfaces
// ------------------------------

// HTTPClient is the subset of *http.Client the API layer needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
