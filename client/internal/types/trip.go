package types

import (
	"encoding/json"
	"fmt"
)

// ------------------------------
// Core Domain Entities
// ------------------------------

// Trip represents a single planned trip. ID is nil for trips built client-side
// that have not been saved yet.
type Trip struct {
	ID          *string `json:"id,omitempty"`
	Name        string  `json:"name"`
	Destination string  `json:"destination"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	Duration    *int    `json:"duration,omitempty"` // days; zero and negative values are kept as-is
	TravelStyle *string `json:"travel_style,omitempty"`
	Description *string `json:"description,omitempty"`
	CreatedAt   *string `json:"created_at,omitempty"`
	UpdatedAt   *string `json:"updated_at,omitempty"`
}

// HasID reports whether the trip carries a server-assigned identifier.
func (t Trip) HasID() bool { return t.ID != nil && *t.ID != "" }

// UnmarshalJSON requires the name and destination keys, mirroring the
// backend contract. Without them an object is not a Trip, which lets callers
// fall back to other response shapes.
func (t *Trip) UnmarshalJSON(b []byte) error {
	type plain Trip
	var probe struct {
		Name        *string `json:"name"`
		Destination *string `json:"destination"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	if probe.Name == nil {
		return fmt.Errorf("trip: missing key %q", "name")
	}
	if probe.Destination == nil {
		return fmt.Errorf("trip: missing key %q", "destination")
	}
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*t = Trip(p)
	return nil
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }
