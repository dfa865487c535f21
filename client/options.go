package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file makes it easy to discover
// all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client during construction in New.
// Options are applied in order; an option returning an error makes New panic.
// Timeout and debug logging are recorded and applied to the final
// http.Client, so they combine with WithHTTPClient in any order.
type Option func(*Client) error

// WithHTTPClient replaces the default http.Client. The client is copied so
// timeout and debug logging never mutate the caller's value.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// By default no client-level timeout is set and the transport defaults
// apply. Prefer per-request context deadlines where possible; this timeout
// bounds the total time spent on a single HTTP request. The value must be
// greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true.
//
// Do not enable this option in production environments as it dumps full
// request and response bodies.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.debug = true
		}
		return nil
	}
}

// WithIDGenerator overrides the id source for trips synthesized from
// template responses. Defaults to uuid.NewString.
func WithIDGenerator(fn func() string) Option {
	return func(c *Client) error {
		if fn == nil {
			return fmt.Errorf("id generator must not be nil")
		}
		c.synth.NewID = fn
		return nil
	}
}

// WithClock overrides the time source for synthesized created_at/updated_at.
func WithClock(fn func() time.Time) Option {
	return func(c *Client) error {
		if fn == nil {
			return fmt.Errorf("clock must not be nil")
		}
		c.synth.Now = fn
		return nil
	}
}

// WithLogger sets the logger used for warnings and debug output.
// Defaults to the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}
