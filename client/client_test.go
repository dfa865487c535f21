package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func okResponse(body string) *http.Response {
	return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader(body)), Header: make(http.Header)}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	c := New("https://example.com/api/trips")
	if c.BaseURL() != "https://example.com/api/trips" {
		t.Fatalf("unexpected base url %q", c.BaseURL())
	}
	if c.http.Timeout != 0 {
		t.Fatalf("default timeout should be unset, got %v", c.http.Timeout)
	}
}

func TestNew_InvalidBaseURLDoesNotPanic(t *testing.T) {
	t.Parallel()
	c := New("not a url", WithLogger(zerolog.Nop()))
	_, err := c.ListTrips(context.Background())
	if !IsInvalidURL(err) {
		t.Fatalf("expected invalid URL error, got %v", err)
	}
}

func TestNew_PanicsOnBadOption(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for non-positive timeout")
		}
	}()
	New("https://example.com", WithHTTPTimeout(0))
}

func TestNew_AutoEnableDebugViaEnv(t *testing.T) {
	t.Setenv("TRIPPLANNER_DEBUG", "true")
	c := New("http://example.com")
	if _, ok := c.http.Transport.(*debugTransport); !ok {
		t.Fatalf("expected debugTransport to be installed when TRIPPLANNER_DEBUG=true")
	}
}

func TestWithHTTPClient_DoesNotMutateCaller(t *testing.T) {
	t.Parallel()
	hc := &http.Client{}
	c := New("https://example.com", WithHTTPClient(hc), WithHTTPTimeout(3*time.Second), WithDebugLogging(true))
	if hc.Timeout != 0 || hc.Transport != nil {
		t.Fatalf("caller http.Client was mutated: %+v", hc)
	}
	if c.http.Timeout != 3*time.Second {
		t.Fatalf("timeout not applied")
	}
}

func TestNew_TransportOptionsSurviveLaterHTTPClient(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Timeout: time.Second}
	c := New("https://example.com",
		WithHTTPTimeout(3*time.Second),
		WithDebugLogging(true),
		WithHTTPClient(hc),
		WithLogger(zerolog.Nop()),
	)
	if _, ok := c.http.Transport.(*debugTransport); !ok {
		t.Fatalf("debug transport lost when WithHTTPClient came last")
	}
	if c.http.Timeout != 3*time.Second {
		t.Fatalf("timeout = %v, want 3s", c.http.Timeout)
	}
	if hc.Transport != nil || hc.Timeout != time.Second {
		t.Fatalf("caller http.Client was mutated: %+v", hc)
	}
}

func TestNew_KeepsCallerTimeoutWithoutOverride(t *testing.T) {
	t.Parallel()
	c := New("https://example.com", WithHTTPClient(&http.Client{Timeout: 2 * time.Second}))
	if c.http.Timeout != 2*time.Second {
		t.Fatalf("timeout = %v, want 2s", c.http.Timeout)
	}
}

func TestDebugTransport_PassesThrough(t *testing.T) {
	t.Parallel()
	var called bool
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return okResponse(`[]`), nil
	})
	c := New("https://example.com", WithHTTPClient(&http.Client{Transport: rt}), WithDebugLogging(true), WithLogger(zerolog.Nop()))
	trips, err := c.ListTrips(context.Background())
	if err != nil || len(trips) != 0 {
		t.Fatalf("ListTrips: %v %v", trips, err)
	}
	if !called {
		t.Fatalf("base transport not invoked")
	}
}

func TestDebugTransport_ErrorPath(t *testing.T) {
	t.Parallel()
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("dial failed")
	})
	c := New("https://example.com", WithHTTPClient(&http.Client{Transport: rt}), WithDebugLogging(true), WithLogger(zerolog.Nop()))
	if _, err := c.GetTrip(context.Background(), "1"); !IsNetworkError(err) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestValidateBaseURL(t *testing.T) {
	t.Parallel()
	if err := ValidateBaseURL("https://trip-planner.free.beeceptor.com/api/trips"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, raw := range []string{"http://localhost:3000/api/trips", "/api/trips", "", "https://"} {
		if ValidateBaseURL(raw) == nil {
			t.Fatalf("%q: expected validation error", raw)
		}
	}
}

// fakeBackend is an in-memory trips collection served over httptest.
type fakeBackend struct {
	mu       sync.Mutex
	trips    []Trip
	template bool
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/trips"), "/")
	switch {
	case r.Method == http.MethodGet && id == "":
		_ = json.NewEncoder(w).Encode(map[string]any{"data": b.trips})
	case r.Method == http.MethodPost:
		if b.template {
			_, _ = w.Write([]byte(`{"id":"{{$randomUUID}}","name":"{{body 'name'}}","destination":"{{body 'destination'}}"}`))
			return
		}
		var req TripRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		newID := "srv-" + req.Name
		trip := Trip{ID: &newID, Name: req.Name, Destination: req.Destination, Duration: req.Duration}
		b.trips = append(b.trips, trip)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(trip)
	case r.Method == http.MethodDelete:
		for i, t := range b.trips {
			if t.ID != nil && *t.ID == id {
				b.trips = append(b.trips[:i], b.trips[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		http.NotFound(w, r)
	default:
		http.Error(w, "unsupported", http.StatusMethodNotAllowed)
	}
}

func newBackendClient(t *testing.T, b *fakeBackend, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	return New(srv.URL+"/api/trips", opts...)
}

func TestClient_CreateListDelete(t *testing.T) {
	t.Parallel()
	c := newBackendClient(t, &fakeBackend{})
	ctx := context.Background()

	created, err := c.CreateTrip(ctx, TripRequest{Name: "Paris", Destination: "France", Duration: IntPtr(0)})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if *created.ID != "srv-Paris" || *created.Duration != 0 {
		t.Fatalf("unexpected created trip: %+v", created)
	}
	trips, err := c.ListTrips(ctx)
	if err != nil || len(trips) != 1 {
		t.Fatalf("ListTrips: %v %v", trips, err)
	}
	if err := c.DeleteTrip(ctx, "srv-Paris"); err != nil {
		t.Fatalf("DeleteTrip: %v", err)
	}
	err = c.DeleteTrip(ctx, "srv-Paris")
	if status, ok := IsHTTPError(err); !ok || status != http.StatusNotFound || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected 404, got %v", err)
	}
}

// Not parallel: reads a process-wide counter.
func TestClient_TemplateFallbackSynthesizes(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	c := newBackendClient(t, &fakeBackend{template: true},
		WithIDGenerator(func() string { return "local-1" }),
		WithClock(func() time.Time { return now }),
	)
	before := counterValue(t)
	trip, err := c.CreateTrip(context.Background(), TripRequest{
		Name:        "Spring",
		Destination: "Lisbon",
		StartDate:   StringPtr("2024-04-19"),
		EndDate:     StringPtr("2024-04-24"),
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if *trip.ID != "local-1" || trip.Name != "Spring" || trip.Destination != "Lisbon" || *trip.StartDate != "19th April 2024" || *trip.EndDate != "24th April 2024" {
		t.Fatalf("unexpected synthesized trip: %+v", trip)
	}
	if *trip.CreatedAt != "2024-04-01T12:00:00Z" {
		t.Fatalf("unexpected created_at %q", *trip.CreatedAt)
	}
	if got := counterValue(t) - before; got != 1 {
		t.Fatalf("template fallback counter delta = %v", got)
	}
}

func counterValue(t *testing.T) float64 {
	t.Helper()
	var m dto.Metric
	if err := templateFallbacksTotal.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestClient_PreCancelledContext(t *testing.T) {
	t.Parallel()
	c := newBackendClient(t, &fakeBackend{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.ListTrips(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOutcomeOf(t *testing.T) {
	t.Parallel()
	c := New("https://example.com", WithLogger(zerolog.Nop()), WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: 503, Body: http.NoBody, Header: make(http.Header)}, nil
		}),
	}))
	_, err := c.GetTrip(context.Background(), "x")
	if got := outcomeOf(err); got != "HTTPError" {
		t.Fatalf("outcome = %q", got)
	}
	if outcomeOf(nil) != "ok" || outcomeOf(context.Canceled) != "canceled" || outcomeOf(errors.New("x")) != "error" {
		t.Fatalf("unexpected outcome labels")
	}
	if !IsRecoverable(err) {
		t.Fatalf("503 should be recoverable")
	}
}
