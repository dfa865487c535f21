package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	apierrors "github.com/Kayz-mann/trip-planner/client/internal/errors"
	"github.com/Kayz-mann/trip-planner/client/internal/types"
)

// maxErrorBody bounds how much of a non-2xx body is kept for diagnostics.
const maxErrorBody = 64 << 10

// parseBase validates baseURL as an absolute URL.
func parseBase(op, baseURL string) (*url.URL, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, apierrors.NewInvalidURL(op, baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, apierrors.NewInvalidURL(op, baseURL, nil)
	}
	return u, nil
}

// collectionURL validates baseURL and returns it as the collection endpoint.
func collectionURL(op, baseURL string) (string, error) {
	u, err := parseBase(op, baseURL)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// itemURL builds {baseURL}/{id}. The id is escaped as a single path segment
// and any query on baseURL is kept.
func itemURL(op, baseURL, id string) (string, error) {
	u, err := parseBase(op, baseURL)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", apierrors.NewInvalidURL(op, baseURL, nil)
	}
	u.RawPath = strings.TrimSuffix(u.EscapedPath(), "/") + "/" + url.PathEscape(id)
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + id
	return u.String(), nil
}

// encodeBody serializes a request payload.
func encodeBody(op string, req types.TripRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, apierrors.NewEncodingError(op, err)
	}
	return body, nil
}

// do issues a single JSON request and returns the body of a 2xx response.
// A ctx that is already done fails as a network error wrapping ctx.Err()
// without touching the transport.
func do(ctx context.Context, httpClient types.HTTPClient, op, method, target string, body []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apierrors.NewNetworkError(op, err)
	}
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, apierrors.NewInvalidURL(op, target, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apierrors.NewNetworkError(op, err)
	}
	if resp == nil {
		return nil, apierrors.NewInvalidResponse(op)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apierrors.NewHTTPError(op, resp.StatusCode, string(snippet))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkError(op, err)
	}
	return data, nil
}
