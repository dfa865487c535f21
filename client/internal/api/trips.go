package api

import (
	"context"
	"fmt"
	"net/http"

	apierrors "github.com/Kayz-mann/trip-planner/client/internal/errors"
	"github.com/Kayz-mann/trip-planner/client/internal/types"
)

// Operation names used in errors and metrics.
const (
	OpListTrips  = "list trips"
	OpGetTrip    = "get trip"
	OpCreateTrip = "create trip"
	OpUpdateTrip = "update trip"
	OpPatchTrip  = "patch trip"
	OpDeleteTrip = "delete trip"
)

// ListTrips fetches every trip from GET {baseURL}.
// A 2xx body in neither list shape yields an empty slice, not an error.
func ListTrips(ctx context.Context, httpClient types.HTTPClient, baseURL string) ([]types.Trip, error) {
	target, err := collectionURL(OpListTrips, baseURL)
	if err != nil {
		return nil, err
	}
	data, err := do(ctx, httpClient, OpListTrips, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	trips, err := decodeChain(data, bareTrips, wrappedTrips)
	if err != nil {
		return []types.Trip{}, nil
	}
	return trips, nil
}

// GetTrip fetches a single trip from GET {baseURL}/{id}.
func GetTrip(ctx context.Context, httpClient types.HTTPClient, baseURL, id string) (*types.Trip, error) {
	target, err := itemURL(OpGetTrip, baseURL, id)
	if err != nil {
		return nil, err
	}
	data, err := do(ctx, httpClient, OpGetTrip, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	trip, err := decodeChain(data, bareTrip, wrappedTrip)
	if err != nil {
		return nil, apierrors.NewDecodingError(OpGetTrip, string(data), err)
	}
	return &trip, nil
}

// CreateTrip posts req to POST {baseURL}. When the body carries an unresolved
// template marker the trip is synthesized from req by synth instead of being
// decoded; the second result reports whether that happened.
func CreateTrip(ctx context.Context, httpClient types.HTTPClient, baseURL string, req types.TripRequest, synth Synthesizer) (*types.Trip, bool, error) {
	target, err := collectionURL(OpCreateTrip, baseURL)
	if err != nil {
		return nil, false, err
	}
	body, err := encodeBody(OpCreateTrip, req)
	if err != nil {
		return nil, false, err
	}
	data, err := do(ctx, httpClient, OpCreateTrip, http.MethodPost, target, body)
	if err != nil {
		return nil, false, err
	}
	var synthesized bool
	fromTemplate := func(data []byte) (types.Trip, error) {
		trip, err := synth.decoder(req)(data)
		synthesized = err == nil
		return trip, err
	}
	// Template text can still be valid JSON with every required key, so a
	// marker-bearing body never goes through the trip decoders.
	attempts := []decoder[types.Trip]{bareTrip, wrappedTrip}
	if IsTemplateBody(data) {
		attempts = []decoder[types.Trip]{fromTemplate}
	}
	trip, err := decodeChain(data, attempts...)
	if err != nil {
		cause := fmt.Errorf("failed to decode trip response. Response: %s: %w", data, err)
		return nil, false, apierrors.NewDecodingError(OpCreateTrip, string(data), cause)
	}
	return &trip, synthesized, nil
}

// UpdateTrip replaces a trip via PUT {baseURL}/{id}.
func UpdateTrip(ctx context.Context, httpClient types.HTTPClient, baseURL, id string, req types.TripRequest) (*types.Trip, error) {
	return writeTrip(ctx, httpClient, OpUpdateTrip, http.MethodPut, baseURL, id, req)
}

// PatchTrip partially updates a trip via PATCH {baseURL}/{id}.
func PatchTrip(ctx context.Context, httpClient types.HTTPClient, baseURL, id string, req types.TripRequest) (*types.Trip, error) {
	return writeTrip(ctx, httpClient, OpPatchTrip, http.MethodPatch, baseURL, id, req)
}

func writeTrip(ctx context.Context, httpClient types.HTTPClient, op, method, baseURL, id string, req types.TripRequest) (*types.Trip, error) {
	target, err := itemURL(op, baseURL, id)
	if err != nil {
		return nil, err
	}
	body, err := encodeBody(op, req)
	if err != nil {
		return nil, err
	}
	data, err := do(ctx, httpClient, op, method, target, body)
	if err != nil {
		return nil, err
	}
	trip, err := decodeChain(data, bareTrip, wrappedTrip)
	if err != nil {
		return nil, apierrors.NewDecodingError(op, string(data), err)
	}
	return &trip, nil
}

// DeleteTrip removes a trip via DELETE {baseURL}/{id}. Any 2xx status is success.
func DeleteTrip(ctx context.Context, httpClient types.HTTPClient, baseURL, id string) error {
	target, err := itemURL(OpDeleteTrip, baseURL, id)
	if err != nil {
		return err
	}
	_, err = do(ctx, httpClient, OpDeleteTrip, http.MethodDelete, target, nil)
	return err
}
