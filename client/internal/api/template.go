package api

import (
	"bytes"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Kayz-mann/trip-planner/client/internal/types"
	"github.com/Kayz-mann/trip-planner/client/tripdate"
)

// TemplateMarker is the prefix of an unresolved mock-backend template variable,
// e.g. {{$randomUUID}}. Such a body echoes the template instead of real values.
const TemplateMarker = "{{$"

// errNoTemplate is returned by the template decoder when the body is not template text.
var errNoTemplate = errors.New("template fallback: body carries no template marker")

// Synthesizer builds a Trip client-side when the backend answers a create with
// unresolved template text. Zero fields fall back to uuid.NewString and time.Now.
type Synthesizer struct {
	NewID func() string
	Now   func() time.Time
}

func (s Synthesizer) id() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s Synthesizer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IsTemplateBody reports whether body contains an unresolved template marker.
func IsTemplateBody(body []byte) bool {
	return bytes.Contains(body, []byte(TemplateMarker))
}

// decoder returns a decoder that synthesizes a Trip from req for template bodies.
func (s Synthesizer) decoder(req types.TripRequest) decoder[types.Trip] {
	return func(data []byte) (types.Trip, error) {
		if !IsTemplateBody(data) {
			return types.Trip{}, errNoTemplate
		}
		return s.Synthesize(req), nil
	}
}

// Synthesize returns the Trip the backend would have created for req.
// Request dates in yyyy-MM-dd form are converted to the display format.
func (s Synthesizer) Synthesize(req types.TripRequest) types.Trip {
	stamp := s.now().UTC().Format(time.RFC3339)
	id := s.id()
	return types.Trip{
		ID:          &id,
		Name:        req.Name,
		Destination: req.Destination,
		StartDate:   tripdate.ReformatRequestDate(req.StartDate),
		EndDate:     tripdate.ReformatRequestDate(req.EndDate),
		Duration:    copyInt(req.Duration),
		TravelStyle: copyString(req.TravelStyle),
		Description: copyString(req.Description),
		CreatedAt:   types.StringPtr(stamp),
		UpdatedAt:   types.StringPtr(stamp),
	}
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
