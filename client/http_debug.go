package client

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog"
)

// debugTransport logs full request/response dumps for troubleshooting
// backend communication (malformed bodies, unexpected envelopes, template
// echoes).
//
// Enable with TRIPPLANNER_DEBUG=true or DEBUG=true, or WithDebugLogging.
// Dumps include bodies, so keep it out of production.
//
// Example usage:
//
//	export TRIPPLANNER_DEBUG=true
//	tripctl list  # all HTTP traffic is logged at debug level
type debugTransport struct {
	base   http.RoundTripper
	logger *zerolog.Logger
}

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := dt.base
	if base == nil {
		base = http.DefaultTransport
	}
	logger := dt.logger

	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		logger.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested reports whether TRIPPLANNER_DEBUG or DEBUG is "true".
func debugLoggingRequested() bool {
	return os.Getenv("TRIPPLANNER_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
