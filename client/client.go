package client

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Kayz-mann/trip-planner/client/internal/api"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client talks to a trips REST backend. It holds no mutable state after
// construction and is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	synth   api.Synthesizer
	logger  zerolog.Logger

	// applied to http once every option has run
	timeout time.Duration
	debug   bool
}

// New constructs a Client for the trips collection at baseURL, e.g.
// "https://trip-planner.free.beeceptor.com/api/trips".
//
// A malformed baseURL is not rejected here; each call reports it as an
// invalid-URL error. A non-HTTPS URL only produces a warning.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		logger:  log.Logger,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		c.debug = true
	}
	c.finishHTTP()

	if err := ValidateBaseURL(baseURL); err != nil {
		c.logger.Warn().Err(err).Str("base_url", baseURL).Msg("trips base url is not absolute https")
	}
	return c
}

// finishHTTP applies the recorded timeout and debug transport to the chosen
// http.Client.
func (c *Client) finishHTTP() {
	if c.timeout > 0 {
		c.http.Timeout = c.timeout
	}
	if c.debug {
		if _, already := c.http.Transport.(*debugTransport); !already {
			c.http.Transport = &debugTransport{base: c.http.Transport, logger: &c.logger}
		}
	}
}

// BaseURL returns the collection URL the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// --------------------------------------------------------------------
// Trip operations - delegated to internal/api
// --------------------------------------------------------------------

// ListTrips fetches all trips. A 2xx body in an unknown shape yields an
// empty list rather than an error.
func (c *Client) ListTrips(ctx context.Context) ([]Trip, error) {
	start := time.Now()
	trips, err := api.ListTrips(ctx, c.http, c.baseURL)
	c.observe(api.OpListTrips, start, err)
	return trips, err
}

// GetTrip fetches a single trip by id.
func (c *Client) GetTrip(ctx context.Context, id string) (*Trip, error) {
	start := time.Now()
	trip, err := api.GetTrip(ctx, c.http, c.baseURL, id)
	c.observe(api.OpGetTrip, start, err)
	return trip, err
}

// CreateTrip creates a trip. If the backend echoes an unresolved template
// (e.g. {{$randomUUID}}) instead of the stored trip, the returned trip is
// synthesized locally from req with a fresh id and timestamps.
func (c *Client) CreateTrip(ctx context.Context, req TripRequest) (*Trip, error) {
	start := time.Now()
	trip, synthesized, err := api.CreateTrip(ctx, c.http, c.baseURL, req, c.synth)
	c.observe(api.OpCreateTrip, start, err)
	if synthesized {
		templateFallbacksTotal.Inc()
		c.logger.Debug().Str("trip_id", *trip.ID).Msg("create trip: backend returned template text, synthesized trip from request")
	}
	return trip, err
}

// UpdateTrip replaces the trip identified by id (PUT).
func (c *Client) UpdateTrip(ctx context.Context, id string, req TripRequest) (*Trip, error) {
	start := time.Now()
	trip, err := api.UpdateTrip(ctx, c.http, c.baseURL, id, req)
	c.observe(api.OpUpdateTrip, start, err)
	return trip, err
}

// PatchTrip partially updates the trip identified by id (PATCH).
func (c *Client) PatchTrip(ctx context.Context, id string, req TripRequest) (*Trip, error) {
	start := time.Now()
	trip, err := api.PatchTrip(ctx, c.http, c.baseURL, id, req)
	c.observe(api.OpPatchTrip, start, err)
	return trip, err
}

// DeleteTrip deletes the trip identified by id. The response body is ignored.
func (c *Client) DeleteTrip(ctx context.Context, id string) error {
	start := time.Now()
	err := api.DeleteTrip(ctx, c.http, c.baseURL, id)
	c.observe(api.OpDeleteTrip, start, err)
	return err
}

func (c *Client) observe(op string, start time.Time, err error) {
	outcome := outcomeOf(err)
	requestsTotal.WithLabelValues(op, outcome).Inc()
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Debug().Err(err).Str("op", op).Str("outcome", outcome).Msg("trip request failed")
	}
}
