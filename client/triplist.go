package client

import (
	"context"
	"fmt"
	"sync"
)

// TripList holds the most recently loaded trips together with the last
// error, for list screens that reload after each mutation.
type TripList struct {
	client *Client

	mu      sync.Mutex
	trips   []Trip
	lastErr error
	loading bool
}

// NewTripList returns an empty list backed by c.
func NewTripList(c *Client) *TripList {
	return &TripList{client: c, trips: []Trip{}}
}

// Trips returns a copy of the loaded trips in server order.
func (l *TripList) Trips() []Trip {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Trip, len(l.trips))
	copy(out, l.trips)
	return out
}

// Err returns the error from the last failed operation, or nil.
func (l *TripList) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// Loading reports whether a Reload is in flight.
func (l *TripList) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Reload fetches the list. On failure the previous trips are kept and the
// error is recorded.
func (l *TripList) Reload(ctx context.Context) error {
	l.mu.Lock()
	l.loading = true
	l.lastErr = nil
	l.mu.Unlock()

	trips, err := l.client.ListTrips(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if err != nil {
		l.lastErr = err
		return err
	}
	l.trips = trips
	return nil
}

// DeleteAt deletes the trip at index and reloads. An out-of-range index or a
// trip without an id is a no-op.
func (l *TripList) DeleteAt(ctx context.Context, index int) error {
	l.mu.Lock()
	if index < 0 || index >= len(l.trips) || !l.trips[index].HasID() {
		l.mu.Unlock()
		return nil
	}
	id := *l.trips[index].ID
	l.mu.Unlock()
	return l.DeleteByID(ctx, id)
}

// DeleteByID deletes the trip with id and reloads.
func (l *TripList) DeleteByID(ctx context.Context, id string) error {
	if err := l.client.DeleteTrip(ctx, id); err != nil {
		err = fmt.Errorf("failed to delete trip: %w", err)
		l.mu.Lock()
		l.lastErr = err
		l.mu.Unlock()
		return err
	}
	return l.Reload(ctx)
}

// Prepend inserts trip at the top of the list without a round trip.
func (l *TripList) Prepend(trip Trip) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trips = append([]Trip{trip}, l.trips...)
}
