package client

import "github.com/Kayz-mann/trip-planner/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Domain entities
	Trip = types.Trip

	// Requests
	TripRequest = types.TripRequest

	// Responses
	TripsEnvelope = types.TripsEnvelope
	TripEnvelope  = types.TripEnvelope
)

// StringPtr returns a pointer to s, for filling optional request fields.
func StringPtr(s string) *string { return types.StringPtr(s) }

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return types.IntPtr(n) }
