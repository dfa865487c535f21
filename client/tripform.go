package client

import (
	"context"
	"strconv"
	"strings"
)

// FormErrors holds per-field validation messages. Empty strings mean valid.
type FormErrors struct {
	Name        string
	Destination string
}

// OK reports whether no field failed validation.
func (e FormErrors) OK() bool { return e.Name == "" && e.Destination == "" }

// TripForm is the editable string state of a create/edit screen.
type TripForm struct {
	Name        string
	Destination string
	StartDate   string // yyyy-MM-dd
	EndDate     string // yyyy-MM-dd
	Duration    string
	TravelStyle string
	Description string
}

// NewTripFormFrom prefills a form for editing trip.
func NewTripFormFrom(trip Trip) TripForm {
	f := TripForm{
		Name:        trip.Name,
		Destination: trip.Destination,
		StartDate:   deref(trip.StartDate),
		EndDate:     deref(trip.EndDate),
		TravelStyle: deref(trip.TravelStyle),
		Description: deref(trip.Description),
	}
	if trip.Duration != nil {
		f.Duration = strconv.Itoa(*trip.Duration)
	}
	return f
}

// Validate requires a non-blank name and destination.
func (f TripForm) Validate() FormErrors {
	var errs FormErrors
	if strings.TrimSpace(f.Name) == "" {
		errs.Name = "Trip name is required"
	}
	if strings.TrimSpace(f.Destination) == "" {
		errs.Destination = "Destination is required"
	}
	return errs
}

// Request converts the form to a TripRequest. Name and destination are
// trimmed; other empty fields become nil. A duration that is not an integer
// is dropped.
func (f TripForm) Request() TripRequest {
	req := TripRequest{
		Name:        strings.TrimSpace(f.Name),
		Destination: strings.TrimSpace(f.Destination),
		StartDate:   optional(f.StartDate),
		EndDate:     optional(f.EndDate),
		TravelStyle: optional(f.TravelStyle),
		Description: optional(f.Description),
	}
	if n, err := strconv.Atoi(f.Duration); err == nil {
		req.Duration = &n
	}
	return req
}

// Save validates the form and creates a trip, or updates editingID when it
// is non-nil. Validation failures return a *FormError without any request.
func (f TripForm) Save(ctx context.Context, c *Client, editingID *string) (*Trip, error) {
	if errs := f.Validate(); !errs.OK() {
		return nil, &FormError{Fields: errs}
	}
	req := f.Request()
	if editingID != nil {
		return c.UpdateTrip(ctx, *editingID, req)
	}
	return c.CreateTrip(ctx, req)
}

// FormError is returned by Save when validation fails.
type FormError struct {
	Fields FormErrors
}

func (e *FormError) Error() string {
	var msgs []string
	if e.Fields.Name != "" {
		msgs = append(msgs, e.Fields.Name)
	}
	if e.Fields.Destination != "" {
		msgs = append(msgs, e.Fields.Destination)
	}
	return "invalid trip: " + strings.Join(msgs, "; ")
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
